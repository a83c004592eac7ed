package scanner

import (
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// scanIdent consumes an identifier-start code point followed by zero
// or more identifier-continue code points. Decode errors encountered
// mid-identifier are collected onto the token without splitting it.
func (s *Scanner) scanIdent() *token.Token {
	m := s.cursor.Mark()
	var errs []token.Error

	r, sz := s.peekRune()
	_ = r
	s.cursor.Off += uint32(sz)

	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if b < 0x80 {
			rr := rune(b)
			if !source.IsIdentifierContinue(rr) {
				break
			}
			s.cursor.Bump()
			continue
		}
		d := source.NewDecoder(s.file.Content[s.cursor.Off:])
		item, ok := d.Next()
		if !ok {
			break
		}
		if item.Valid && !source.IsIdentifierContinue(item.CP) {
			break
		}
		off := s.cursor.Off
		s.cursor.Off += uint32(item.Width)
		if !item.Valid {
			errs = append(errs, token.Error{
				Kind: token.ErrDecodedErrorPosition,
				Span: errAt(s.file.ID, off, item.Width),
			})
		}
	}

	sp := s.cursor.SpanFrom(m)
	return &token.Token{
		Kind:   token.Ident,
		Span:   sp,
		Text:   string(s.file.Content[sp.Start:sp.End]),
		Errors: errs,
	}
}
