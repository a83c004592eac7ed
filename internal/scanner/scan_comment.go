package scanner

import (
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// scanComment consumes '#' through (not including) the next newline.
// Decode errors inside the comment body are collected but never split
// the token: the comment always extends to the line break.
func (s *Scanner) scanComment() *token.Token {
	m := s.cursor.Mark()
	s.cursor.Bump() // '#'

	var errs []token.Error
	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if b == '\n' || b == '\r' {
			break
		}
		if b < 0x80 {
			s.cursor.Bump()
			continue
		}
		d := source.NewDecoder(s.file.Content[s.cursor.Off:])
		item, ok := d.Next()
		if !ok {
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
	return &token.Token{Kind: token.Comment, Span: s.cursor.SpanFrom(m), Errors: errs}
}
