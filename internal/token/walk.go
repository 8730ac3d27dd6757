package token

import "norg/internal/source"

// Walk visits tokens depth-first in source order. fn receives the nesting depth
// (0 for top-level tokens); returning false skips the token's children.
func Walk(tokens []Token, fn func(tok *Token, depth int) bool) {
	walk(tokens, 0, fn)
}

func walk(tokens []Token, depth int, fn func(tok *Token, depth int) bool) {
	for i := range tokens {
		tok := &tokens[i]
		if !fn(tok, depth) {
			continue
		}
		if tok.Kind == Modifier {
			walk(tok.Children, depth+1, fn)
		}
	}
}

// Flatten returns the leaf tokens of the tree in source order, decaying every
// Modifier into a literal Word for its opening delimiter, its flattened
// children, and a literal Word for its closing delimiter.
func Flatten(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	return flattenInto(out, tokens)
}

func flattenInto(out, tokens []Token) []Token {
	for _, tok := range tokens {
		if tok.Kind != Modifier {
			out = append(out, tok)
			continue
		}
		open, closing := delimiterWords(tok)
		out = append(out, open)
		out = flattenInto(out, tok.Children)
		out = append(out, closing)
	}
	return out
}

// delimiterWords splits a modifier into its two one-character delimiter words.
// Delimiters are ASCII and never span a line break, so they are one column and
// one byte wide.
func delimiterWords(tok Token) (open, closing Token) {
	ch := string(tok.Modifier.Char())
	open = Token{
		Kind: Word,
		Text: ch,
		Range: source.Range{
			Start: tok.Range.Start,
			End:   source.Pos{Line: tok.Range.Start.Line, Col: tok.Range.Start.Col + 1},
		},
		Span: source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + 1},
	}
	closing = Token{
		Kind: Word,
		Text: ch,
		Range: source.Range{
			Start: source.Pos{Line: tok.Range.End.Line, Col: tok.Range.End.Col - 1},
			End:   tok.Range.End,
		},
		Span: source.Span{File: tok.Span.File, Start: tok.Span.End - 1, End: tok.Span.End},
	}
	return open, closing
}

// CountModifiers returns how many Modifier tokens of each kind the tree holds.
func CountModifiers(tokens []Token) [ModifierCount]int {
	var counts [ModifierCount]int
	Walk(tokens, func(tok *Token, _ int) bool {
		if tok.Kind == Modifier && tok.Modifier.Valid() {
			counts[tok.Modifier]++
		}
		return true
	})
	return counts
}
