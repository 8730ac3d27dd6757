package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"norg/internal/atom"
	"norg/internal/source"
)

// Cursor читает содержимое файла по атомам и ведёт позицию через Tracker.
type Cursor struct {
	File    *source.File
	Tracker Tracker
	// Limit is the exclusive upper bound for the byte offset.
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// Off returns the current byte offset.
func (c *Cursor) Off() uint32 { return c.Tracker.Offset() }

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Tracker.Offset() >= c.Limit
}

// AtomAt декодирует атом по байтовому смещению off, не двигая курсор.
func (c *Cursor) AtomAt(off uint32) (atom.Atom, bool) {
	if off >= c.Limit {
		return atom.Atom{}, false
	}
	b := c.File.Content[off]
	if b < utf8.RuneSelf { // fast-path ASCII
		return atom.Of(rune(b), 1), true
	}
	r, sz := utf8.DecodeRune(c.File.Content[off:c.Limit])
	return atom.Of(r, sz), true
}

// Peek возвращает текущий атом; ok == false на EOF.
func (c *Cursor) Peek() (atom.Atom, bool) {
	return c.AtomAt(c.Off())
}

// Peek2 возвращает атом, следующий за текущим.
func (c *Cursor) Peek2() (atom.Atom, bool) {
	cur, ok := c.Peek()
	if !ok {
		return atom.Atom{}, false
	}
	return c.AtomAt(c.Off() + uint32(cur.Size))
}

// Bump consumes the current atom and advances the tracker.
func (c *Cursor) Bump() atom.Atom {
	a, ok := c.Peek()
	if !ok {
		return atom.Atom{}
	}
	c.Tracker.Advance(a)
	return a
}

// Mark это метка, что бы быстро получать Span и Range читаемого фрагмента
type Mark struct {
	Off uint32
	Pos source.Pos
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{Off: c.Off(), Pos: c.Tracker.Pos()}
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: m.Off, End: c.Off()}
}

// RangeFrom получает Range для фрагмента, начиная с метки
func (c *Cursor) RangeFrom(m Mark) source.Range {
	return source.Range{Start: m.Pos, End: c.Tracker.Pos()}
}

// TextFrom возвращает текст от метки до текущей позиции.
func (c *Cursor) TextFrom(m Mark) string {
	return string(c.File.Content[m.Off:c.Off()])
}
