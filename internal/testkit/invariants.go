// Package testkit hosts cross-package invariant checkers for the
// lexical pipeline, grounded on the same style as a pre-existing
// AST-invariant checker in this lineage: a handful of CheckX
// functions, each returning a descriptive error on the first
// violation found rather than collecting every failure.
package testkit

import (
	"fmt"

	"rebuild/internal/diag"
	"rebuild/internal/report"
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// CheckSpanCoverage verifies that a flat token stream (scanner or
// filter output, before nesting groups it into a tree) covers content
// byte-for-byte: spans are contiguous, non-overlapping, and the first
// and last spans touch the buffer's boundaries.
func CheckSpanCoverage(content []byte, toks []*token.Token) error {
	if len(toks) == 0 {
		if len(content) != 0 {
			return fmt.Errorf("no tokens emitted for %d bytes of content", len(content))
		}
		return nil
	}
	if toks[0].Span.Start != 0 {
		return fmt.Errorf("first token starts at %d, want 0", toks[0].Span.Start)
	}
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		if prev.Span.End != cur.Span.Start {
			return fmt.Errorf("gap or overlap between token %d (%v) and token %d (%v)", i-1, prev.Span, i, cur.Span)
		}
	}
	last := toks[len(toks)-1]
	if int(last.Span.End) != len(content) {
		return fmt.Errorf("last token ends at %d, want %d", last.Span.End, len(content))
	}
	return nil
}

// CheckMonotonicPositions verifies that a flat token stream's spans
// are emitted in non-decreasing start-offset order, the position
// invariant every later stage (filter, nesting) relies on.
func CheckMonotonicPositions(toks []*token.Token) error {
	for i := 1; i < len(toks); i++ {
		if toks[i].Span.Start < toks[i-1].Span.Start {
			return fmt.Errorf("token %d starts at %d, before token %d's start %d", i, toks[i].Span.Start, i-1, toks[i-1].Span.Start)
		}
	}
	return nil
}

// CheckFilterContainment verifies that every token the filter emits
// has a span contained within some token the scanner emitted, i.e.
// the filter only narrows or relabels scanner tokens, never invents
// byte ranges that were not part of the raw scan.
func CheckFilterContainment(scanned, filtered []*token.Token) error {
	for i, f := range filtered {
		contained := false
		for _, s := range scanned {
			if f.Span.Start >= s.Span.Start && f.Span.End <= s.Span.End {
				contained = true
				break
			}
		}
		if !contained {
			return fmt.Errorf("filtered token %d (%s at %v) is not contained in any scanned token", i, f.Kind, f.Span)
		}
	}
	return nil
}

// CheckBlockTreeSpanCoverage verifies that a nesting-stage block tree
// covers content byte-for-byte at the root level, the tree-shaped
// counterpart to CheckSpanCoverage: it flattens each root line's
// tokens and insignificants (in source order, via BlockLine.ForEach)
// and checks the resulting spans are contiguous, non-overlapping, and
// span the full buffer. A BlockLiteral token's own span must cover
// everything nesting consumed to build it (its body lines plus any
// opening/closing markers), so checking coverage at the root level
// also exercises every nested block's span bookkeeping.
func CheckBlockTreeSpanCoverage(content []byte, root *token.BlockLiteralValue) error {
	var spans []source.Span
	for _, line := range root.Lines {
		line.ForEach(func(tok *token.Token, significant bool) {
			spans = append(spans, tok.Span)
		})
	}
	if len(spans) == 0 {
		if len(content) != 0 {
			return fmt.Errorf("no spans emitted for %d bytes of content", len(content))
		}
		return nil
	}
	if spans[0].Start != 0 {
		return fmt.Errorf("first span starts at %d, want 0", spans[0].Start)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i-1].End != spans[i].Start {
			return fmt.Errorf("gap or overlap between span %d (%v) and span %d (%v)", i-1, spans[i-1], i, spans[i])
		}
	}
	last := spans[len(spans)-1]
	if int(last.End) != len(content) {
		return fmt.Errorf("last span ends at %d, want %d", last.End, len(content))
	}
	return nil
}

// CheckNoSurvivingBlockEnd verifies that nesting consumes every
// BlockEndIdentifier token it is fed: each either closes a frame (and
// is folded into the frame's BlockLiteral span) or is rewritten into
// an UnexpectedBlockEnd insignificant, but the raw BlockEndIdentifier
// kind itself must never appear in the assembled tree.
func CheckNoSurvivingBlockEnd(root *token.BlockLiteralValue) error {
	var walk func(b *token.BlockLiteralValue) error
	walk = func(b *token.BlockLiteralValue) error {
		if b == nil {
			return nil
		}
		for _, line := range b.Lines {
			for _, t := range line.Tokens {
				if t.Kind == token.BlockEndIdentifier {
					return fmt.Errorf("raw BlockEndIdentifier token survived nesting at %v", t.Span)
				}
				if t.Kind == token.BlockLiteral {
					if err := walk(t.Block); err != nil {
						return err
					}
				}
			}
			for _, t := range line.Insignificants {
				if t.Kind == token.BlockEndIdentifier {
					return fmt.Errorf("raw BlockEndIdentifier token survived nesting at %v", t.Span)
				}
			}
		}
		return nil
	}
	return walk(root)
}

// CheckTaintIdempotence verifies that running the reporter twice over
// the same block tree produces the full diagnostic set the first time
// and none the second: the reporter's Tainted latch on each token
// must make re-reporting a no-op.
func CheckTaintIdempotence(file *source.File, root *token.BlockLiteralValue, maxDiagnostics int) error {
	first := diag.NewBag(maxDiagnostics)
	report.Run(file, root, first)

	second := diag.NewBag(maxDiagnostics)
	report.Run(file, root, second)

	if second.Len() != 0 {
		return fmt.Errorf("second report pass produced %d diagnostics, want 0 (first pass produced %d)", second.Len(), first.Len())
	}
	return nil
}
