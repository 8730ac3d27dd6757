package token

// Kind represents the category of an output token.
type Kind uint8

const (
	// Invalid indicates a zero-value token.
	Invalid Kind = iota
	// Word is a maximal run of ordinary characters, or a literal delimiter.
	Word
	// Space is a maximal run of horizontal whitespace.
	Space
	// SoftBreak is a single line break.
	SoftBreak
	// ParagraphBreak is two consecutive line breaks.
	ParagraphBreak
	// Link is a braced link target.
	Link
	// Modifier is a resolved attached-modifier span with children.
	Modifier
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Word:
		return "Word"
	case Space:
		return "Space"
	case SoftBreak:
		return "SoftBreak"
	case ParagraphBreak:
		return "ParagraphBreak"
	case Link:
		return "Link"
	case Modifier:
		return "Modifier"
	}
	return "Unknown"
}

// LinkKind is the variant of a Link token.
type LinkKind uint8

const (
	// LinkURL is the only link variant: raw text between braces.
	LinkURL LinkKind = iota
)

func (k LinkKind) String() string {
	if k == LinkURL {
		return "Url"
	}
	return "Unknown"
}
