package source

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Item is one element of a decoded byte sequence: either a valid code
// point or a maximal run of bytes that could not be decoded as UTF-8.
type Item struct {
	Valid bool
	CP    rune
	Width int // byte length this item consumed
}

// Decoder produces a lazy, finite, non-restartable sequence of Items
// over a byte slice. It never advances past the slice end, and merges
// consecutive undecodable bytes into a single Item so callers see one
// error span per maximal invalid run rather than one per byte.
type Decoder struct {
	b   []byte
	pos int
}

// NewDecoder returns a decoder positioned at the start of b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{b: b}
}

// Pos reports the current byte offset into the underlying slice.
func (d *Decoder) Pos() int {
	return d.pos
}

// Next returns the next Item, or ok=false once the slice is exhausted.
func (d *Decoder) Next() (Item, bool) {
	if d.pos >= len(d.b) {
		return Item{}, false
	}
	r, size := utf8.DecodeRune(d.b[d.pos:])
	if !(r == utf8.RuneError && size <= 1) {
		d.pos += size
		return Item{Valid: true, CP: r, Width: size}, true
	}

	start := d.pos
	d.pos++
	for d.pos < len(d.b) {
		r2, size2 := utf8.DecodeRune(d.b[d.pos:])
		if r2 == utf8.RuneError && size2 <= 1 {
			d.pos++
			continue
		}
		break
	}
	return Item{Valid: false, Width: d.pos - start}, true
}

// IsCombiningMark reports whether r is a Unicode combining mark, using
// the canonical combining class rather than the coarser Mark category.
func IsCombiningMark(r rune) bool {
	return norm.NFC.Properties([]byte(string(r))).CCC() != 0 || unicode.Is(unicode.Mn, r)
}

// IsControl reports whether r is a C0/C1 control code point.
func IsControl(r rune) bool {
	return unicode.IsControl(r)
}

// IsNonCharacter reports whether r is one of the Unicode noncharacters:
// U+FDD0..U+FDEF, or the last two code points of any plane.
func IsNonCharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	low := r & 0xFFFF
	return low == 0xFFFE || low == 0xFFFF
}

// IsSurrogate reports whether r falls in the UTF-16 surrogate range.
// A validly decoded rune from this package's Decoder never carries a
// surrogate value; this predicate exists for completeness against the
// component design's exposed classification surface.
func IsSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// IsDigit reports whether r is an ASCII or Unicode decimal digit.
func IsDigit(r rune) bool {
	return unicode.IsDigit(r)
}

// IsIdentifierStart reports whether r may begin an identifier: a
// Unicode letter, underscore, or other ID_Start-class code point.
func IsIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || (r > unicode.MaxASCII && unicode.IsOneOf([]*unicode.RangeTable{unicode.L, unicode.Nl}, r))
}

// IsIdentifierContinue reports whether r may continue an identifier
// begun by IsIdentifierStart.
func IsIdentifierContinue(r rune) bool {
	return IsIdentifierStart(r) || unicode.IsDigit(r) || IsCombiningMark(r)
}

// IsWhitespace reports whether r is an ASCII space or tab. Newlines
// are handled separately by the scanner; they are not whitespace in
// this classification because they carry indentation semantics.
func IsWhitespace(r rune) bool {
	return r == ' ' || r == '\t'
}
