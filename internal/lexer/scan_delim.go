package lexer

import (
	"norg/internal/atom"
	"norg/internal/token"
)

// scanDelimiter выдаёт одиночный разделитель с флагами открытия/закрытия.
// Серия одинаковых разделителей ("**", "--") никогда не бывает границей
// модификатора и целиком уходит в литеральное слово.
func (lx *Lexer) scanDelimiter(first atom.Atom) Lexeme {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	run := 1
	for {
		a, ok := lx.cursor.Peek()
		if !ok || !a.IsDelimiter(first.Char) {
			break
		}
		lx.cursor.Bump()
		run++
	}

	word := token.Token{
		Kind:  token.Word,
		Range: lx.cursor.RangeFrom(start),
		Span:  lx.cursor.SpanFrom(start),
		Text:  lx.cursor.TextFrom(start),
	}
	if run > 1 {
		lx.leftBoundary = false
		return lx.tok(word)
	}

	lm := Lexeme{
		Kind:    LexDelimiter,
		Token:   word,
		Char:    first.Char,
		Opening: lx.leftBoundary,
		Closing: lx.closingAt(lx.cursor.Off()),
	}
	// цепочка "*/": следующий разделитель открывает, только если открывал этот
	lx.leftBoundary = lm.Opening
	return lm
}

// closingAt проверяет правую границу для разделителя, за которым начинается off.
// Граница: конец ввода, пробел или перевод строки; одиночные разделители
// другого вида между ними пропускаются ("/*" в "*/both/*").
func (lx *Lexer) closingAt(off uint32) bool {
	for {
		a, ok := lx.cursor.AtomAt(off)
		if !ok || a.IsBoundary() {
			return true
		}
		if a.Kind != atom.Delimiter {
			return false
		}
		next, ok := lx.cursor.AtomAt(off + uint32(a.Size))
		if ok && next.IsDelimiter(a.Char) {
			return false
		}
		off += uint32(a.Size)
	}
}
