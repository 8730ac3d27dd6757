package lexer

import (
	"norg/internal/atom"
	"norg/internal/source"
)

// PlacedAtom is an atom together with where it was read.
type PlacedAtom struct {
	atom.Atom
	Range source.Range
	Span  source.Span
}

// Atoms classifies every character of file in order, with positions kept by
// the same tracker the lexer uses.
func Atoms(file *source.File) []PlacedAtom {
	c := NewCursor(file)
	out := make([]PlacedAtom, 0, len(file.Content))
	for !c.EOF() {
		m := c.Mark()
		a := c.Bump()
		out = append(out, PlacedAtom{Atom: a, Range: c.RangeFrom(m), Span: c.SpanFrom(m)})
	}
	return out
}
