package lexer

import (
	"unicode/utf8"

	"norg/internal/atom"
	"norg/internal/diag"
	"norg/internal/source"
	"norg/internal/token"
)

// scanWord собирает максимальную серию Character-атомов в одно слово.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	badAt := uint32(0)
	bad := false
	for {
		a, ok := lx.cursor.Peek()
		if !ok || a.Kind != atom.Character {
			break
		}
		if a.Char == utf8.RuneError && a.Size == 1 && !bad {
			bad = true
			badAt = lx.cursor.Off()
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if bad {
		// один отчёт на слово, байты остаются в тексте как есть
		lx.warn(diag.LexInvalidUTF8, sp, "word contains an invalid UTF-8 sequence").
			WithNote(source.Span{File: sp.File, Start: badAt, End: badAt + 1}, "first invalid byte").
			Emit()
	}
	return token.Token{
		Kind:  token.Word,
		Range: lx.cursor.RangeFrom(start),
		Span:  sp,
		Text:  lx.cursor.TextFrom(start),
	}
}

// scanSpace собирает серию пробелов и табуляций.
func (lx *Lexer) scanSpace() token.Token {
	start := lx.cursor.Mark()
	for {
		a, ok := lx.cursor.Peek()
		if !ok || a.Kind != atom.Space {
			break
		}
		lx.cursor.Bump()
	}
	return token.Token{
		Kind:  token.Space,
		Range: lx.cursor.RangeFrom(start),
		Span:  lx.cursor.SpanFrom(start),
		Text:  lx.cursor.TextFrom(start),
	}
}

// scanBreak: два перевода строки подряд дают ParagraphBreak, одиночный: SoftBreak.
// Пары набираются строго слева направо, так что "\n\n\n" = ParagraphBreak + SoftBreak.
func (lx *Lexer) scanBreak() token.Token {
	start := lx.cursor.Mark()
	kind, n := token.SoftBreak, 1
	if a, ok := lx.cursor.Peek2(); ok && a.Kind == atom.LineBreak {
		kind, n = token.ParagraphBreak, 2
	}
	for range n {
		lx.cursor.Bump()
	}
	return token.Token{
		Kind:  kind,
		Range: lx.cursor.RangeFrom(start),
		Span:  lx.cursor.SpanFrom(start),
	}
}

// scanBrace выдаёт одиночную скобку как литеральное слово.
func (lx *Lexer) scanBrace() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return token.Token{
		Kind:  token.Word,
		Range: lx.cursor.RangeFrom(start),
		Span:  lx.cursor.SpanFrom(start),
		Text:  lx.cursor.TextFrom(start),
	}
}
