package lexer

import (
	"fmt"

	"norg/internal/atom"
	"norg/internal/source"
)

// Tracker ведёт текущую позицию (строка, колонка в рунах, байтовое смещение).
// Advance вызывается ровно один раз на каждый потреблённый атом.
type Tracker struct {
	pos source.Pos
	off uint32
}

// Pos returns the current zero-based line and column.
func (t *Tracker) Pos() source.Pos { return t.pos }

// Offset returns the current byte offset.
func (t *Tracker) Offset() uint32 { return t.off }

// Advance moves past a: one column for any atom, except LineBreak which starts
// the next line at column zero.
func (t *Tracker) Advance(a atom.Atom) {
	prev := t.pos
	if a.Kind == atom.LineBreak {
		t.pos.Line++
		t.pos.Col = 0
	} else {
		t.pos.Col++
	}
	t.off += uint32(a.Size)

	// позиция обязана строго расти; иначе это дефект трекера
	if t.pos.Compare(prev) <= 0 || a.Size == 0 {
		panic(fmt.Errorf("lexer: position went from %s to %s on %s %q", prev, t.pos, a.Kind, a.Char))
	}
}
