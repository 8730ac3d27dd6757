package lexer

import (
	"norg/internal/atom"
	"norg/internal/diag"
	"norg/internal/token"
)

// scanLink читает "{...}". Вложенность не поддерживается: первая '}' закрывает ссылку.
// Незакрытая '{' превращается в слово со всем захваченным текстом.
func (lx *Lexer) scanLink() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '{'
	body := lx.cursor.Mark()
	for {
		a, ok := lx.cursor.Peek()
		if !ok {
			break
		}
		if a.Kind == atom.LinkClose {
			text := lx.cursor.TextFrom(body)
			lx.cursor.Bump()
			return token.Token{
				Kind:  token.Link,
				Link:  token.LinkURL,
				Range: lx.cursor.RangeFrom(start),
				Span:  lx.cursor.SpanFrom(start),
				Text:  text,
			}
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	lx.warn(diag.LexUnterminatedLink, sp, "link is never closed; kept as literal text").
		WithNote(lx.emptySpan(), "expected '}' before end of input").
		Emit()
	return token.Token{
		Kind:  token.Word,
		Range: lx.cursor.RangeFrom(start),
		Span:  sp,
		Text:  lx.cursor.TextFrom(start),
	}
}
