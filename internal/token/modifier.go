package token

// ModifierKind is one of the eleven attached-modifier kinds. Values are dense
// so that per-kind state can live in a [ModifierCount]T array.
type ModifierKind uint8

const (
	Bold ModifierKind = iota
	Italic
	Underline
	Strikethrough
	Spoiler
	Verbatim
	Superscript
	Subscript
	Math
	Variable
	Comment

	// ModifierCount is the number of modifier kinds.
	ModifierCount = int(Comment) + 1
)

var modifierChars = [ModifierCount]rune{
	Bold:          '*',
	Italic:        '/',
	Underline:     '_',
	Strikethrough: '-',
	Spoiler:       '|',
	Verbatim:      '`',
	Superscript:   '^',
	Subscript:     ',',
	Math:          '$',
	Variable:      '=',
	Comment:       '+',
}

var modifierNames = [ModifierCount]string{
	Bold:          "Bold",
	Italic:        "Italic",
	Underline:     "Underline",
	Strikethrough: "Strikethrough",
	Spoiler:       "Spoiler",
	Verbatim:      "Verbatim",
	Superscript:   "Superscript",
	Subscript:     "Subscript",
	Math:          "Math",
	Variable:      "Variable",
	Comment:       "Comment",
}

// ModifierFor returns the modifier kind delimited by ch.
func ModifierFor(ch rune) (ModifierKind, bool) {
	for k, c := range modifierChars {
		if c == ch {
			return ModifierKind(k), true
		}
	}
	return 0, false
}

// Char returns the delimiter character of k.
func (k ModifierKind) Char() rune {
	if int(k) >= ModifierCount {
		return 0
	}
	return modifierChars[k]
}

// Valid reports whether k is one of the known kinds.
func (k ModifierKind) Valid() bool { return int(k) < ModifierCount }

func (k ModifierKind) String() string {
	if int(k) >= ModifierCount {
		return "Unknown"
	}
	return modifierNames[k]
}

// Modifiers returns all kinds in declaration order.
func Modifiers() []ModifierKind {
	out := make([]ModifierKind, ModifierCount)
	for i := range out {
		out[i] = ModifierKind(i)
	}
	return out
}
