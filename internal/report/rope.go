package report

import "strings"

// rope accumulates an escaped source excerpt from small pieces without
// repeated string concatenation, tracking the running byte length so
// callers can record escaped-text offsets as they append. It is
// materialized once, at the end, via strings.Join.
type rope struct {
	parts []string
	n     int
}

// writeString appends s and returns the escaped-text offset at which it
// starts.
func (r *rope) writeString(s string) int {
	start := r.n
	r.parts = append(r.parts, s)
	r.n += len(s)
	return start
}

// len reports the rope's current materialized length in bytes.
func (r *rope) len() int { return r.n }

func (r *rope) String() string { return strings.Join(r.parts, "") }
