package scanner

import (
	"unicode"
	"unicode/utf8"

	"rebuild/internal/source"
)

// peekRune decodes the rune starting at the cursor without advancing.
// It never reports a decode error itself; callers that care about
// decode errors drive the byte-level source.Decoder instead, since a
// lone invalid byte still needs to be consumed one byte at a time.
func (s *Scanner) peekRune() (r rune, size int) {
	if s.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := s.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(s.file.Content[s.cursor.Off:])
	return r, sz
}

// bumpRune advances the cursor past the rune at the current position.
// If that rune is invalid, it advances by exactly one byte so callers
// driving their own decode-error bookkeeping stay in lock-step with
// source.Decoder's maximal-invalid-run semantics.
func (s *Scanner) bumpRune() {
	_, sz := s.peekRune()
	if sz <= 0 {
		sz = 1
	}
	s.cursor.Off += uint32(sz)
}

func isDecDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isOctDigit(b byte) bool { return b >= '0' && b <= '7' }
func isBinDigit(b byte) bool { return b == '0' || b == '1' }

// isOperatorSymbol reports whether r belongs to the operator-class
// code point set, excluding the bracket characters which are
// classified separately so callers can decide punctuation-vs-run
// status for them.
func isOperatorSymbol(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~', '?', '@', '$', '\\', '.':
		return true
	}
	return r > 127 && unicode.IsSymbol(r)
}

func isBracketRune(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func isOpenBracket(r rune) bool { return r == '(' || r == '[' || r == '{' }

func matchingClose(r rune) rune {
	switch r {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

// errAt builds a single-rune error span starting at off.
func errAt(file source.FileID, off uint32, width int) source.Span {
	return source.Span{File: file, Start: off, End: off + uint32(width)}
}
