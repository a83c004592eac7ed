// Package scanner implements the byte-level lazy tokenizer (component
// C of the lexical pipeline): it turns a source.File into a finite,
// non-restartable sequence of token.Token values, one call to Next
// per token, never halting on error.
package scanner

import (
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// Scanner produces the raw lexical token stream for one file.
type Scanner struct {
	file   *source.File
	cursor Cursor
	opts   Options
	done   bool
}

// New creates a scanner positioned at the start of file.
func New(file *source.File, opts Options) *Scanner {
	return &Scanner{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next token, or an EOF token once the input is
// exhausted; every call after that continues to return EOF.
func (s *Scanner) Next() *token.Token {
	if s.done {
		return s.emptyEOF()
	}
	if s.cursor.EOF() {
		s.done = true
		return s.emptyEOF()
	}

	b := s.cursor.Peek()
	switch {
	case b == '\n' || b == '\r':
		return s.scanNewline()
	case b == ' ' || b == '\t':
		return s.scanWhitespace()
	case b == '#':
		return s.scanComment()
	case b == '"':
		return s.scanString()
	case b == ':':
		return s.single(token.Colon)
	case b == ',':
		return s.single(token.Comma)
	case b == ';':
		return s.single(token.Semicolon)
	}

	r, _ := s.peekRune()
	switch {
	case source.IsDigit(r):
		return s.scanNumber()
	case source.IsIdentifierStart(r):
		return s.scanIdent()
	case isBracketRune(r) || isOperatorSymbol(r):
		return s.scanOperatorOrBracket()
	}

	return s.scanUnexpectedOrInvalid()
}

func (s *Scanner) emptyEOF() *token.Token {
	off := s.cursor.limit()
	return &token.Token{
		Kind: token.EOF,
		Span: source.Span{File: s.file.ID, Start: off, End: off},
	}
}

func (s *Scanner) single(k token.Kind) *token.Token {
	m := s.cursor.Mark()
	s.cursor.Bump()
	return &token.Token{Kind: k, Span: s.cursor.SpanFrom(m)}
}

// scanUnexpectedOrInvalid consumes one decoder item (a valid but
// unclassified code point, or a maximal run of undecodable bytes) and
// emits the corresponding error token.
func (s *Scanner) scanUnexpectedOrInvalid() *token.Token {
	m := s.cursor.Mark()
	d := source.NewDecoder(s.file.Content[s.cursor.Off:])
	item, ok := d.Next()
	if !ok {
		s.cursor.Bump()
		return &token.Token{Kind: token.UnexpectedCharacter, Span: s.cursor.SpanFrom(m)}
	}
	s.cursor.Off += uint32(item.Width)
	sp := s.cursor.SpanFrom(m)
	if !item.Valid {
		return &token.Token{
			Kind: token.InvalidEncoding,
			Span: sp,
			Errors: []token.Error{
				{Kind: token.ErrDecodedErrorPosition, Span: sp},
			},
		}
	}
	return &token.Token{
		Kind: token.UnexpectedCharacter,
		Span: sp,
		Errors: []token.Error{
			{Kind: token.ErrUnexpectedCharacter, Span: sp},
		},
	}
}
