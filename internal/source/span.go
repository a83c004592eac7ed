package source

import (
	"fmt"
)

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

func (s Span) ShiftRight(n uint32) Span {
	if n > s.Len() {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

// ZeroideToStart collapses the span to a zero-length span at its start.
func (s Span) ZeroideToStart() Span {
	return Span{
		File:  s.File,
		Start: s.Start,
		End:   s.Start,
	}
}

// ZeroideToEnd collapses the span to a zero-length span at its end.
func (s Span) ZeroideToEnd() Span {
	return Span{
		File:  s.File,
		Start: s.End,
		End:   s.End,
	}
}
