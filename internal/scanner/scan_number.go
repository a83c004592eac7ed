package scanner

import (
	"rebuild/internal/token"
)

// scanNumber consumes a numeric literal: optional radix prefix,
// integer digits, optional fractional part, optional signed exponent,
// followed by a boundary check against trailing identifier
// characters that are not a recognized suffix (this language defines
// none, so any such trailing run is always an error).
func (s *Scanner) scanNumber() *token.Token {
	m := s.cursor.Mark()
	var errs []token.Error

	if s.cursor.Peek() == '0' {
		b0, b1, ok := s.cursor.Peek2()
		if ok && b0 == '0' {
			switch b1 {
			case 'x', 'X':
				s.cursor.Bump()
				s.cursor.Bump()
				errs = append(errs, s.scanDigitsOrMissing(isHexDigit)...)
				goto afterInt
			case 'o', 'O':
				s.cursor.Bump()
				s.cursor.Bump()
				errs = append(errs, s.scanDigitsOrMissing(isOctDigit)...)
				goto afterInt
			case 'b', 'B':
				s.cursor.Bump()
				s.cursor.Bump()
				errs = append(errs, s.scanDigitsOrMissing(isBinDigit)...)
				goto afterInt
			}
		}
	}

	for !s.cursor.EOF() && isDecDigit(s.cursor.Peek()) {
		s.cursor.Bump()
	}

	if !s.cursor.EOF() && s.cursor.Peek() == '.' {
		b0, b1, ok := s.cursor.Peek2()
		if ok && b0 == '.' && isDecDigit(b1) {
			s.cursor.Bump() // '.'
			for !s.cursor.EOF() && isDecDigit(s.cursor.Peek()) {
				s.cursor.Bump()
			}
		}
	}

afterInt:
	if !s.cursor.EOF() && (s.cursor.Peek() == 'e' || s.cursor.Peek() == 'E') {
		save := s.cursor.Mark()
		s.cursor.Bump()
		if !s.cursor.EOF() && (s.cursor.Peek() == '+' || s.cursor.Peek() == '-') {
			s.cursor.Bump()
		}
		if s.cursor.EOF() || !isDecDigit(s.cursor.Peek()) {
			errs = append(errs, token.Error{
				Kind: token.ErrNumberMissingExponent,
				Span: s.cursor.SpanFrom(save),
			})
		} else {
			for !s.cursor.EOF() && isDecDigit(s.cursor.Peek()) {
				s.cursor.Bump()
			}
		}
	}

	if boundaryErr, has := s.checkNumberBoundary(); has {
		errs = append(errs, boundaryErr)
	}

	sp := s.cursor.SpanFrom(m)
	return &token.Token{
		Kind:   token.Number,
		Span:   sp,
		Text:   string(s.file.Content[sp.Start:sp.End]),
		Errors: errs,
	}
}

// scanDigitsOrMissing consumes a run of digits matching isDigit; if
// none are present it reports NumberMissingValue at the cursor.
func (s *Scanner) scanDigitsOrMissing(isDigit func(byte) bool) []token.Error {
	start := s.cursor.Mark()
	n := 0
	for !s.cursor.EOF() && isDigit(s.cursor.Peek()) {
		s.cursor.Bump()
		n++
	}
	if n == 0 {
		return []token.Error{{
			Kind: token.ErrNumberMissingValue,
			Span: s.cursor.SpanFrom(start),
		}}
	}
	return nil
}

// checkNumberBoundary reports NumberMissingBoundary when the number
// is immediately followed by identifier characters; this language
// defines no unit suffixes, so any such run is always illegal.
func (s *Scanner) checkNumberBoundary() (token.Error, bool) {
	if s.cursor.EOF() {
		return token.Error{}, false
	}
	b := s.cursor.Peek()
	if !((b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_') {
		return token.Error{}, false
	}
	start := s.cursor.Mark()
	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' {
			s.cursor.Bump()
			continue
		}
		break
	}
	return token.Error{Kind: token.ErrNumberMissingBoundary, Span: s.cursor.SpanFrom(start)}, true
}
