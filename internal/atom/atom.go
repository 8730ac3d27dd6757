// Package atom classifies single input characters into the atom kinds the
// lexer groups and the resolver interprets.
//
// Classification is a fixed table lookup: it has no state, never fails, and the
// fallback for any rune not listed below is Character.
package atom

import "fmt"

// Kind is the class of one input character.
type Kind uint8

const (
	// Character is any rune that is not whitespace, a line break, a delimiter or a brace.
	Character Kind = iota
	// Space is horizontal whitespace (' ' and '\t').
	Space
	// LineBreak is '\n'.
	LineBreak
	// Delimiter is one of the eleven attached-modifier characters.
	Delimiter
	// LinkOpen is '{'.
	LinkOpen
	// LinkClose is '}'.
	LinkClose
)

func (k Kind) String() string {
	switch k {
	case Character:
		return "Character"
	case Space:
		return "Space"
	case LineBreak:
		return "LineBreak"
	case Delimiter:
		return "Delimiter"
	case LinkOpen:
		return "LinkOpen"
	case LinkClose:
		return "LinkClose"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Atom is one classified character together with its encoded size in bytes.
type Atom struct {
	Char rune
	Kind Kind
	Size uint8
}

// IsBoundary reports whether the atom separates words: whitespace or a line break.
func (a Atom) IsBoundary() bool {
	return a.Kind == Space || a.Kind == LineBreak
}

// IsDelimiter reports whether the atom is the delimiter character ch.
func (a Atom) IsDelimiter(ch rune) bool {
	return a.Kind == Delimiter && a.Char == ch
}

// Classify returns the atom kind of r.
func Classify(r rune) Kind {
	switch r {
	case ' ', '\t':
		return Space
	case '\n':
		return LineBreak
	case '*', '/', '_', '-', '|', '`', '^', ',', '$', '=', '+':
		return Delimiter
	case '{':
		return LinkOpen
	case '}':
		return LinkClose
	default:
		return Character
	}
}

// Of builds the atom for r with the given encoded size.
func Of(r rune, size int) Atom {
	// руны не бывают длиннее 4 байт, но RuneError на битом входе имеет size 1
	if size < 0 || size > 4 {
		panic(fmt.Errorf("atom: invalid rune size %d for %q", size, r))
	}
	return Atom{Char: r, Kind: Classify(r), Size: uint8(size)}
}
