package token

import "rebuild/internal/source"

// Error attaches one classified error to the token that covers the
// bytes it describes.
type Error struct {
	Kind ErrorKind
	Span source.Span
}

// Token is the flat, pointer-identity representation shared by every
// pipeline stage. Tokens are produced once by their originating stage
// and are immutable thereafter except for Tainted, which the reporter
// latches from false to true (see internal/report).
//
// Tokens are always held by pointer once they leave the scanner so
// that the Tainted latch is visible to every later holder of the same
// token (filter buffers, nesting block lines, the reporter).
type Token struct {
	Kind Kind
	Span source.Span
	Text string

	// Column is the indentation column of a Newline token, computed
	// per Options.TabWidth after normalizing the leading run of
	// spaces/tabs that follows the line break.
	Column uint32

	// LeftSeparated and RightSeparated are set by the filter on
	// Ident tokens; see the filter package for the exact rule.
	LeftSeparated  bool
	RightSeparated bool

	// Errors holds every classified error attached to this token.
	// A token may carry more than one (e.g. a string literal with
	// several invalid escapes).
	Errors []Error

	// Tainted is latched true by the reporter once every error on
	// this token has been folded into an emitted Diagnostic.
	Tainted bool

	// Block is populated only when Kind == BlockLiteral.
	Block *BlockLiteralValue
}

// BothSeparated reports whether both separation flags are set.
func (t *Token) BothSeparated() bool {
	return t.LeftSeparated && t.RightSeparated
}

// HasErrors reports whether the token carries at least one error.
func (t *Token) HasErrors() bool {
	return len(t.Errors) > 0
}

// HasUntaintedErrors reports whether the token carries an error and
// has not yet been reported.
func (t *Token) HasUntaintedErrors() bool {
	return !t.Tainted && t.HasErrors()
}

// ErrorsOfKind returns every error on the token matching kind.
func (t *Token) ErrorsOfKind(kind ErrorKind) []Error {
	var out []Error
	for _, e := range t.Errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// BlockLine is one logical line inside a block: its significant
// tokens and the insignificants (whitespace, comments, newlines,
// structural markers, errors) that the parser ignores but the
// reporter needs, independently ordered but source-interleaved.
type BlockLine struct {
	Tokens         []*Token
	Insignificants []*Token
}

// Span returns the union of every token and insignificant span on the
// line, or a zero span if the line is empty.
func (bl *BlockLine) Span() source.Span {
	var sp source.Span
	first := true
	cover := func(s source.Span) {
		if first {
			sp = s
			first = false
			return
		}
		sp = sp.Cover(s)
	}
	for _, t := range bl.Tokens {
		cover(t.Span)
	}
	for _, t := range bl.Insignificants {
		cover(t.Span)
	}
	return sp
}

// ForEach visits every token on the line (significant and
// insignificant) in source order, merging the two slices by their
// span's starting offset.
func (bl *BlockLine) ForEach(fn func(tok *Token, significant bool)) {
	i, j := 0, 0
	for i < len(bl.Tokens) || j < len(bl.Insignificants) {
		switch {
		case i >= len(bl.Tokens):
			fn(bl.Insignificants[j], false)
			j++
		case j >= len(bl.Insignificants):
			fn(bl.Tokens[i], true)
			i++
		case bl.Tokens[i].Span.Start < bl.Insignificants[j].Span.Start:
			fn(bl.Tokens[i], true)
			i++
		default:
			fn(bl.Insignificants[j], false)
			j++
		}
	}
}

// BlockLiteralValue is the payload of a BlockLiteral token: an
// indentation-defined block, in source order.
type BlockLiteralValue struct {
	Lines []*BlockLine
}
