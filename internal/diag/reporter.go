package diag

// Sink is the minimal contract for receiving diagnostics from a pipeline
// phase. *Bag implements it directly; NewDedupReporter wraps one to filter
// duplicates before they reach it.
type Sink interface {
	Report(d Diagnostic) bool
}
