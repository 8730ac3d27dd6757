package token

import (
	"strings"
	"unicode/utf8"

	"norg/internal/source"
)

// Token represents one node of the output tree with its location.
type Token struct {
	Kind  Kind
	Range source.Range
	Span  source.Span
	// Text is the word text, the raw whitespace run, or the link target.
	Text string
	// Link is set for Kind == Link.
	Link LinkKind
	// Modifier and Children are set for Kind == Modifier.
	Modifier ModifierKind
	Children []Token
}

// RunLen returns the number of characters in a Space run.
func (t Token) RunLen() int {
	return utf8.RuneCountInString(t.Text)
}

// Source returns the literal source text the token was produced from.
func (t Token) Source() string {
	var sb strings.Builder
	t.writeSource(&sb)
	return sb.String()
}

func (t Token) writeSource(sb *strings.Builder) {
	switch t.Kind {
	case Word, Space:
		sb.WriteString(t.Text)
	case SoftBreak:
		sb.WriteByte('\n')
	case ParagraphBreak:
		sb.WriteString("\n\n")
	case Link:
		sb.WriteByte('{')
		sb.WriteString(t.Text)
		sb.WriteByte('}')
	case Modifier:
		ch := t.Modifier.Char()
		sb.WriteRune(ch)
		for i := range t.Children {
			t.Children[i].writeSource(sb)
		}
		sb.WriteRune(ch)
	}
}

// Source concatenates the literal source of tokens.
func Source(tokens []Token) string {
	var sb strings.Builder
	for i := range tokens {
		tokens[i].writeSource(&sb)
	}
	return sb.String()
}
