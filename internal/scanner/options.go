package scanner

// Options configures scanning behaviour that the specification leaves
// as an explicit open question: tab width for indentation-column
// computation. It defaults to 1 column per tab when unset.
type Options struct {
	TabWidth uint32
}

func (o Options) tabWidth() uint32 {
	if o.TabWidth == 0 {
		return 1
	}
	return o.TabWidth
}
