// Package filter implements the stateful transducer (component D of
// the lexical pipeline): it consumes the scanner's raw token stream
// and rewrites it into the sequence the nesting stage groups into
// blocks — stripping insignificant runs, marking identifier
// separation, and recognizing block-start/block-end syntax.
package filter

import (
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// TokenSource is anything that can be pulled one token at a time,
// terminating with a token.EOF. Both scanner.Scanner and a plain
// slice-backed replay source satisfy it.
type TokenSource interface {
	Next() *token.Token
}

// Filter exposes the same pull-based Next() surface as the scanner,
// even though it materializes and rewrites the whole input up front:
// every rewrite in the specification (run-collapsing, trailing-noise
// drop, block-start/end recognition) needs look-ahead past a single
// token, so buffering the full stream once is far simpler to get
// right than threading a bounded look-ahead window through six
// distinct rewrite rules, and a source file is never large enough for
// that to matter.
type Filter struct {
	out []*token.Token
	pos int
}

// New drains src to EOF and returns a Filter over the fully rewritten
// stream.
func New(src TokenSource) *Filter {
	var raw []*token.Token
	for {
		tok := src.Next()
		if tok.Kind == token.EOF {
			break
		}
		raw = append(raw, tok)
	}
	return &Filter{out: Run(raw)}
}

// Next returns the next filtered token, or a synthetic EOF once the
// stream is exhausted.
func (f *Filter) Next() *token.Token {
	if f.pos >= len(f.out) {
		return &token.Token{Kind: token.EOF}
	}
	t := f.out[f.pos]
	f.pos++
	return t
}

// Run applies every filter rewrite to a fully materialized raw token
// stream and returns the filtered result. Exposed directly so callers
// that already have a token slice (tests, cached tokenizations) can
// skip the Filter wrapper.
//
// Block-start/end recognition must run before the trailing-noise drop
// (a colon or "end" at the very end of the file would otherwise lose
// the newline it needs to match against), and identifier separation
// must be computed only after leading/trailing noise and block
// rewrites have settled, but before whitespace tokens — which still
// count as separators — are finally dropped.
func Run(raw []*token.Token) []*token.Token {
	toks := stripLeadingAndSynthesize(raw)
	toks = collapseNewlineRuns(toks)
	toks = rewriteBlockStart(toks)
	toks = rewriteBlockEnd(toks)
	toks = dropTrailingNoise(toks)
	markIdentSeparation(toks)
	toks = dropWhitespace(toks)
	return toks
}

func isNoiseKind(k token.Kind) bool {
	switch k {
	case token.Newline, token.Whitespace, token.Comment:
		return true
	default:
		return false
	}
}

// stripLeadingAndSynthesize drops any leading run of
// newline/whitespace/comment tokens and prepends a single synthetic
// zero-column NewLineIndentation ahead of the first significant
// token, per rewrite rule 1.
func stripLeadingAndSynthesize(raw []*token.Token) []*token.Token {
	idx := 0
	for idx < len(raw) && isNoiseKind(raw[idx].Kind) {
		idx++
	}
	kept := raw[idx:]

	synth := &token.Token{Kind: token.Newline, Column: 0}
	if len(kept) > 0 {
		start := kept[0].Span.Start
		synth.Span.File = kept[0].Span.File
		synth.Span.Start = start
		synth.Span.End = start
	}

	out := make([]*token.Token, 0, len(kept)+1)
	out = append(out, synth)
	out = append(out, kept...)
	return out
}

// collapseNewlineRuns replaces any maximal run of noise tokens that
// contains two or more NewLineIndentation tokens with just the last
// one in the run, per rewrite rule 2. A run containing at most one
// newline (e.g. a single comment line, or inline whitespace) is left
// untouched.
func collapseNewlineRuns(toks []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		if !isNoiseKind(toks[i].Kind) {
			out = append(out, toks[i])
			i++
			continue
		}
		j := i
		var newlines []int
		for j < len(toks) && isNoiseKind(toks[j].Kind) {
			if toks[j].Kind == token.Newline {
				newlines = append(newlines, j)
			}
			j++
		}
		if len(newlines) >= 2 {
			out = append(out, toks[newlines[len(newlines)-1]])
		} else {
			out = append(out, toks[i:j]...)
		}
		i = j
	}
	return out
}

// isLeftTrigger reports whether a token of this kind, appearing
// immediately to the LEFT of an identifier, separates it. Opening
// brackets only ever trigger from the left: "(x" separates x from
// whatever came before the bracket, but "x(" does not separate x from
// the call it opens — that asymmetry is what isRightTrigger encodes
// on the other side.
func isLeftTrigger(k token.Kind) bool {
	switch k {
	case token.Newline, token.Whitespace, token.Comma, token.Semicolon,
		token.Colon, token.BracketOpen, token.SquareOpen,
		token.BlockStartColon, token.BlockEndIdentifier:
		return true
	default:
		return false
	}
}

// isRightTrigger reports whether a token of this kind, appearing
// immediately to the RIGHT of an identifier, separates it. Closing
// brackets only ever trigger from the right.
func isRightTrigger(k token.Kind) bool {
	switch k {
	case token.Newline, token.Whitespace, token.Comma, token.Semicolon,
		token.Colon, token.BracketClose, token.SquareClose,
		token.BlockStartColon, token.BlockEndIdentifier:
		return true
	default:
		return false
	}
}

// markIdentSeparation sets LeftSeparated/RightSeparated on every
// Ident token per rewrite rule 4. It must run while whitespace tokens
// are still present in the stream, since whitespace is itself one of
// the separator kinds, but after leading/trailing noise has already
// been dropped and block rewrites have settled.
func markIdentSeparation(toks []*token.Token) {
	for i, t := range toks {
		if t.Kind != token.Ident {
			continue
		}
		t.LeftSeparated = i == 0 || isLeftTrigger(toks[i-1].Kind)
		t.RightSeparated = i == len(toks)-1 || isRightTrigger(toks[i+1].Kind)
	}
}

// dropWhitespace removes every WhiteSpaceSeparator token. Whitespace
// only ever matters for computing identifier separation; it carries
// no content the parser or reporter needs once that is done.
func dropWhitespace(toks []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.Whitespace {
			continue
		}
		out = append(out, t)
	}
	return out
}

// rewriteBlockStart rewrites a ColonSeparator whose next
// non-whitespace, non-comment token is a NewLineIndentation into a
// BlockStartColon covering only the colon, per rewrite rule 5. The
// whitespace, comments and NewLineIndentation after it stay in the
// stream, and nesting takes the new block's indentation from that
// NewLineIndentation.
func rewriteBlockStart(toks []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Kind == token.Colon {
			j := i + 1
			for j < len(toks) && (toks[j].Kind == token.Whitespace || toks[j].Kind == token.Comment) {
				j++
			}
			if j < len(toks) && toks[j].Kind == token.Newline {
				out = append(out, &token.Token{Kind: token.BlockStartColon, Span: t.Span})
				i++
				continue
			}
		}
		out = append(out, t)
		i++
	}
	return out
}

// rewriteBlockEnd rewrites the identifier "end" in block-terminating
// position into a BlockEndIdentifier, per rewrite rule 6. "end"
// terminates a block when it immediately follows either a
// NewLineIndentation (an ordinary line start) or a BlockStartColon (an
// empty block), and is immediately followed by a NewLineIndentation
// or the end of the stream. In the former case the preceding newline
// is absorbed into the new token's span and column; in the latter the
// BlockStartColon is left in place, since it already marks the block
// boundary nesting needs.
func rewriteBlockEnd(toks []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Kind == token.Ident && t.Text == "end" && len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Kind == token.Newline || prev.Kind == token.BlockStartColon {
				next := i + 1
				nextIsNewline := next < len(toks) && toks[next].Kind == token.Newline
				atStreamEnd := next >= len(toks)
				if nextIsNewline || atStreamEnd {
					var sp source.Span
					var col uint32
					if prev.Kind == token.Newline {
						sp = prev.Span.Cover(t.Span)
						col = prev.Column
						out = out[:len(out)-1]
					} else {
						sp = t.Span
					}
					if nextIsNewline {
						sp = sp.Cover(toks[next].Span)
					}
					out = append(out, &token.Token{Kind: token.BlockEndIdentifier, Span: sp, Column: col})
					if nextIsNewline {
						i = next + 1
					} else {
						i = next
					}
					continue
				}
			}
		}
		out = append(out, t)
		i++
	}
	return out
}

// dropTrailingNoise drops every token after the last significant
// token, per rewrite rule 3. A stream with no significant token at
// all (pure comments/whitespace) filters down to nothing.
func dropTrailingNoise(toks []*token.Token) []*token.Token {
	last := -1
	for i, t := range toks {
		if !isNoiseKind(t.Kind) {
			last = i
		}
	}
	if last == -1 {
		return nil
	}
	return toks[:last+1]
}
