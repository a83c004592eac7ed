package diag

import "rebuild/internal/source"

type dedupKey struct {
	code  Code
	file  source.FileID
	start uint32
}

// DedupReporter wraps another Sink and suppresses duplicate diagnostics
// with the same code and primary span.
type DedupReporter struct {
	next Sink
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Sink) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) bool {
	if r == nil {
		return false
	}
	sp, _ := d.PrimarySpan()
	key := dedupKey{code: d.Code, file: sp.File, start: sp.Start}
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		return r.next.Report(d)
	}
	return true
}
