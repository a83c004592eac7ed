// Package nesting implements the indentation-driven block assembler
// (component E of the lexical pipeline): it consumes the filter's
// rewritten token stream and produces a single root BlockLiteral,
// grouping filtered tokens into lines and lines into nested blocks by
// comparing indentation columns.
package nesting

import (
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// blockFrame is one entry on the open-block stack. column is the
// indentation column every line directly inside this block must
// match; the root frame uses -1, which no real token column can ever
// reach, so it is never mistaken for a real block.
type blockFrame struct {
	column     int64
	value      *token.BlockLiteralValue
	cur        *token.BlockLine
	parentLine *token.BlockLine // where this frame's BlockLiteral token lands once closed; nil for root
	empty      bool             // true for a block opened and closed with no indented body at all
}

func newFrame(column int64, parentLine *token.BlockLine, empty bool) *blockFrame {
	return &blockFrame{column: column, value: &token.BlockLiteralValue{}, cur: &token.BlockLine{}, parentLine: parentLine, empty: empty}
}

// flushLine appends the frame's in-progress line to its block (unless
// it is entirely empty) and starts a fresh one.
func (fr *blockFrame) flushLine() {
	if len(fr.cur.Tokens) > 0 || len(fr.cur.Insignificants) > 0 {
		fr.value.Lines = append(fr.value.Lines, fr.cur)
	}
	fr.cur = &token.BlockLine{}
}

func appendInsignificant(line *token.BlockLine, kind token.Kind, sp source.Span) {
	line.Insignificants = append(line.Insignificants, &token.Token{Kind: kind, Span: sp})
}

// Builder assembles the filtered token stream into a tree of blocks.
// It is single-pass and stateful, mirroring the scanner/filter's own
// shape, and is not safe for concurrent use.
type Builder struct {
	stack             []*blockFrame
	pendingBlockStart bool
	lastSpan          source.Span
}

// Run assembles a fully filtered token stream (see internal/filter)
// into the root BlockLiteral.
func Run(toks []*token.Token) *token.BlockLiteralValue {
	root := newFrame(-1, nil, false)
	b := &Builder{stack: []*blockFrame{root}}
	for _, t := range toks {
		b.lastSpan = t.Span
		b.feed(t)
	}
	b.finish()
	return root.value
}

func (b *Builder) top() *blockFrame { return b.stack[len(b.stack)-1] }

func (b *Builder) feed(t *token.Token) {
	switch t.Kind {
	case token.Newline:
		b.onNewline(t)
	case token.BlockEndIdentifier:
		b.onBlockEnd(t)
	default:
		b.appendToCurrent(t)
		if t.Kind == token.BlockStartColon {
			b.pendingBlockStart = true
		}
	}
}

func (b *Builder) appendToCurrent(t *token.Token) {
	fr := b.top()
	if t.Kind.IsSignificant() {
		fr.cur.Tokens = append(fr.cur.Tokens, t)
	} else {
		fr.cur.Insignificants = append(fr.cur.Insignificants, t)
	}
}

// closeFrame finishes fr: it wraps the accumulated lines into a
// BlockLiteral token and, unless fr is the root, places that token on
// the line in the parent block that held the BlockStartColon which
// opened it. marker, if non-zero, is also recorded on that line.
func (b *Builder) closeFrame(fr *blockFrame, marker token.Kind, at *token.Token) {
	if fr.parentLine == nil {
		return
	}
	sp := at.Span
	if len(fr.value.Lines) > 0 {
		first := fr.value.Lines[0].Span()
		last := fr.value.Lines[len(fr.value.Lines)-1].Span()
		sp = first.Cover(last).Cover(at.Span)
	}
	fr.parentLine.Tokens = append(fr.parentLine.Tokens, &token.Token{Kind: token.BlockLiteral, Span: sp, Block: fr.value})
	if marker != token.Invalid {
		appendInsignificant(fr.parentLine, marker, at.Span)
	}
}

// onNewline handles rule 2: a block-start colon pending from the
// previous token opens a new frame first (at a synthetic column one
// past its parent's if the following line is not actually indented
// further, so the general dedent loop below closes it again
// immediately as an empty, end-less block); then the indentation
// column of t is compared against the stack to close, continue, or
// flag whatever blocks it crosses.
func (b *Builder) onNewline(t *token.Token) {
	if b.pendingBlockStart {
		b.pendingBlockStart = false
		fr := b.top()
		parentLine := fr.cur
		fr.flushLine()

		col := int64(t.Column)
		childCol := col
		empty := false
		if col <= fr.column {
			childCol = fr.column + 1
			empty = true
		}
		b.stack = append(b.stack, newFrame(childCol, parentLine, empty))
	}

	c := int64(t.Column)
	for {
		fr := b.top()
		if fr.column == -1 {
			// Root has no a priori column: the first line of the file
			// establishes it, whatever it is.
			fr.column = c
			fr.flushLine()
			fr.cur.Insignificants = append(fr.cur.Insignificants, t)
			return
		}
		switch {
		case c < fr.column:
			fr.flushLine()
			b.closeFrame(fr, token.MissingBlockEnd, t)
			b.stack = b.stack[:len(b.stack)-1]
			continue
		case c == fr.column:
			fr.flushLine()
			fr.cur.Insignificants = append(fr.cur.Insignificants, t)
			return
		default: // c > fr.column: over-indented without a preceding block-start colon
			fr.flushLine()
			appendInsignificant(fr.cur, token.UnexpectedIndent, t.Span)
			fr.cur.Insignificants = append(fr.cur.Insignificants, t)
			return
		}
	}
}

// onBlockEnd handles rule 3. A pending block-start colon with no
// intervening newline means the block is empty and is closed here
// immediately. A BlockEndIdentifier with no block open at all is
// itself the error (UnexpectedBlockEnd); otherwise "end" is expected
// to align with the column of the line that opened the block (the
// parent frame's column, not the child's indented body), and a
// mismatch there is MisIndentedBlockEnd.
func (b *Builder) onBlockEnd(t *token.Token) {
	if b.pendingBlockStart {
		b.pendingBlockStart = false
		fr := b.top()
		parentLine := fr.cur
		fr.flushLine()
		b.stack = append(b.stack, newFrame(fr.column+1, parentLine, true))
	}

	fr := b.top()
	if len(b.stack) == 1 {
		fr.flushLine()
		appendInsignificant(fr.cur, token.UnexpectedBlockEnd, t.Span)
		return
	}

	parentCol := b.stack[len(b.stack)-2].column
	fr.flushLine()
	var marker token.Kind
	if !fr.empty && int64(t.Column) != parentCol {
		marker = token.MisIndentedBlockEnd
	}
	b.closeFrame(fr, marker, t)
	b.stack = b.stack[:len(b.stack)-1]
}

// finish handles rule 4: any block still open once the stream ends
// closes with MissingBlockEnd.
func (b *Builder) finish() {
	fr := b.top()
	fr.flushLine()
	sentinel := &token.Token{Span: b.lastSpan}
	for len(b.stack) > 1 {
		b.closeFrame(fr, token.MissingBlockEnd, sentinel)
		b.stack = b.stack[:len(b.stack)-1]
		fr = b.top()
		fr.flushLine()
	}
}
