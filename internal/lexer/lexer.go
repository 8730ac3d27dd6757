package lexer

import (
	"norg/internal/atom"
	"norg/internal/source"
	"norg/internal/token"
)

// LexemeKind distinguishes grouped tokens from delimiters that still need resolving.
type LexemeKind uint8

const (
	// LexEOF is returned once input is exhausted, and on every call after that.
	LexEOF LexemeKind = iota
	// LexToken carries a finished Word, Space, SoftBreak, ParagraphBreak or Link.
	LexToken
	// LexDelimiter carries one attached-modifier character with its candidacy flags.
	LexDelimiter
)

// Lexeme is one unit handed to the resolver.
//
// For LexDelimiter, Token is the literal one-character Word the delimiter
// decays to when it does not open or close a modifier.
type Lexeme struct {
	Kind  LexemeKind
	Token token.Token
	Char  rune
	// Opening: the delimiter follows a word boundary (or an opening delimiter of another kind).
	Opening bool
	// Closing: the delimiter precedes a word boundary (or a closing delimiter of another kind).
	Closing bool
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	raw    bool
	// leftBoundary is true when the next delimiter would be an opening candidate.
	leftBoundary bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:         file,
		cursor:       NewCursor(file),
		opts:         opts,
		leftBoundary: true,
	}
}

// SetRaw включает режим, в котором фигурные скобки не начинают ссылку.
// Резолвер включает его, пока открыт Verbatim.
func (lx *Lexer) SetRaw(raw bool) { lx.raw = raw }

// Pos returns the position of the next unread atom.
func (lx *Lexer) Pos() source.Pos { return lx.cursor.Tracker.Pos() }

// Next возвращает следующую лексему. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() Lexeme {
	a, ok := lx.cursor.Peek()
	if !ok {
		return Lexeme{Kind: LexEOF, Token: token.Token{Range: lx.emptyRange(), Span: lx.emptySpan()}}
	}

	switch a.Kind {
	case atom.Character:
		lx.leftBoundary = false
		return lx.tok(lx.scanWord())
	case atom.Space:
		lx.leftBoundary = true
		return lx.tok(lx.scanSpace())
	case atom.LineBreak:
		lx.leftBoundary = true
		return lx.tok(lx.scanBreak())
	case atom.Delimiter:
		return lx.scanDelimiter(a)
	case atom.LinkOpen:
		lx.leftBoundary = false
		if lx.raw {
			return lx.tok(lx.scanBrace())
		}
		return lx.tok(lx.scanLink())
	case atom.LinkClose:
		lx.leftBoundary = false
		return lx.tok(lx.scanBrace())
	}
	// классификатор тотален; сюда попадаем только при дефекте atom.Classify
	panic("lexer: unclassified atom " + a.Kind.String())
}

func (lx *Lexer) tok(t token.Token) Lexeme {
	return Lexeme{Kind: LexToken, Token: t}
}

func (lx *Lexer) emptySpan() source.Span {
	off := lx.cursor.Off()
	return source.Span{File: lx.file.ID, Start: off, End: off}
}

func (lx *Lexer) emptyRange() source.Range {
	p := lx.cursor.Tracker.Pos()
	return source.Range{Start: p, End: p}
}
