package lexer

import (
	"testing"

	"norg/internal/atom"
	"norg/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.norg", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nб" → a, \n, б, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nб"))

	want := []struct {
		ch   rune
		kind atom.Kind
		pos  source.Pos
		off  uint32
	}{
		{'a', atom.Character, source.Pos{Line: 0, Col: 1}, 1},
		{'\n', atom.LineBreak, source.Pos{Line: 1, Col: 0}, 2},
		{'б', atom.Character, source.Pos{Line: 1, Col: 1}, 4},
	}
	for i, w := range want {
		if cursor.EOF() {
			t.Fatalf("step %d: unexpected EOF", i)
		}
		a := cursor.Bump()
		if a.Char != w.ch || a.Kind != w.kind {
			t.Errorf("step %d: got %q %s, want %q %s", i, a.Char, a.Kind, w.ch, w.kind)
		}
		if cursor.Tracker.Pos() != w.pos || cursor.Off() != w.off {
			t.Errorf("step %d: at %s off %d, want %s off %d", i, cursor.Tracker.Pos(), cursor.Off(), w.pos, w.off)
		}
	}
	if !cursor.EOF() {
		t.Error("Expected EOF at the end")
	}
	if _, ok := cursor.Peek(); ok {
		t.Error("Peek at EOF must report !ok")
	}
	if a := cursor.Bump(); a != (atom.Atom{}) {
		t.Errorf("Bump at EOF returned %v", a)
	}
}

func TestPeek2AndAtomAt(t *testing.T) {
	cursor := NewCursor(createFile("*x"))
	a, ok := cursor.Peek2()
	if !ok || a.Char != 'x' {
		t.Errorf("Peek2 = %q, %v", a.Char, ok)
	}
	if _, ok := cursor.AtomAt(2); ok {
		t.Error("AtomAt past the end must report !ok")
	}
	if cursor.Off() != 0 {
		t.Error("lookahead must not move the cursor")
	}
}

func TestMarkSpanRange(t *testing.T) {
	cursor := NewCursor(createFile("ab\ncd"))
	cursor.Bump()
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	cursor.Bump()

	sp := cursor.SpanFrom(m)
	if sp.Start != 1 || sp.End != 4 {
		t.Errorf("SpanFrom = %v", sp)
	}
	r := cursor.RangeFrom(m)
	want := source.Range{Start: source.Pos{Line: 0, Col: 1}, End: source.Pos{Line: 1, Col: 1}}
	if r != want {
		t.Errorf("RangeFrom = %v, want %v", r, want)
	}
	if got := cursor.TextFrom(m); got != "b\nc" {
		t.Errorf("TextFrom = %q", got)
	}
}

func TestInvalidUTF8IsOneByteCharacter(t *testing.T) {
	cursor := NewCursor(createFile("\xffa"))
	a := cursor.Bump()
	if a.Kind != atom.Character || a.Size != 1 {
		t.Errorf("invalid byte decoded as %v", a)
	}
	if cursor.Tracker.Pos().Col != 1 || cursor.Off() != 1 {
		t.Errorf("tracker after invalid byte: %s off %d", cursor.Tracker.Pos(), cursor.Off())
	}
}
