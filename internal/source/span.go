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

// Pos is a zero-based (line, column) coordinate; columns count Unicode scalars.
type Pos struct {
	Line uint32
	Col  uint32
}

// Compare orders positions by line, then column.
func (p Pos) Compare(other Pos) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Col < other.Col:
		return -1
	case p.Col > other.Col:
		return 1
	}
	return 0
}

// Less reports whether p sorts strictly before other.
func (p Pos) Less(other Pos) bool { return p.Compare(other) < 0 }

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Line, p.Col)
}

// Range is a half-open interval [Start, End) of positions.
type Range struct {
	Start Pos
	End   Pos
}

// Valid reports whether Start <= End.
func (r Range) Valid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Empty reports whether the range covers no characters.
func (r Range) Empty() bool {
	return r.Start == r.End
}

// Cover returns the smallest range containing both r and other.
func (r Range) Cover(other Range) Range {
	if other.Start.Less(r.Start) {
		r.Start = other.Start
	}
	if r.End.Less(other.End) {
		r.End = other.End
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%s,%s)", r.Start, r.End)
}
