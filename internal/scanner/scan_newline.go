package scanner

import (
	"rebuild/internal/token"
)

// scanNewline consumes one line break (\n or \r — \r\n was already
// normalized to \n when the file was loaded, see internal/source) and
// the run of spaces/tabs immediately following it, producing a single
// NewLineIndentation token whose Column is the indentation width of
// the line that follows.
func (s *Scanner) scanNewline() *token.Token {
	m := s.cursor.Mark()
	s.cursor.Bump() // the \n or \r byte itself

	runStart := s.cursor.Off
	var column uint32
	sawSpace, sawTab := false, false
	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		switch b {
		case ' ':
			sawSpace = true
			column++
			s.cursor.Bump()
		case '\t':
			sawTab = true
			column += s.opts.tabWidth()
			s.cursor.Bump()
		default:
			goto doneRun
		}
	}
doneRun:
	sp := s.cursor.SpanFrom(m)
	tok := &token.Token{Kind: token.Newline, Span: sp, Column: column}

	if sawSpace && sawTab {
		runEnd := s.cursor.Off
		for off := runStart; off < runEnd; off++ {
			tok.Errors = append(tok.Errors, token.Error{
				Kind: token.ErrMixedIndentCharacter,
				Span: errAt(s.file.ID, off, 1),
			})
		}
	}
	return tok
}

// scanWhitespace consumes a maximal run of spaces/tabs not
// immediately following a newline.
func (s *Scanner) scanWhitespace() *token.Token {
	m := s.cursor.Mark()
	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if b != ' ' && b != '\t' {
			break
		}
		s.cursor.Bump()
	}
	return &token.Token{Kind: token.Whitespace, Span: s.cursor.SpanFrom(m)}
}
