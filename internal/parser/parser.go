package parser

import (
	"norg/internal/diag"
	"norg/internal/lexer"
	"norg/internal/source"
	"norg/internal/token"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(file *source.File, opts Options) []token.Token {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	return Parse(lx, opts)
}

// Parse resolves modifiers over an already constructed lexer.
func Parse(lx *lexer.Lexer, opts Options) []token.Token {
	r := resolver{lx: lx, opts: opts}
	return r.run()
}

// ParseString разбирает текст без файла и без диагностик.
func ParseString(text string) []token.Token {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<string>", []byte(text))
	return ParseFile(fs.Get(id), Options{})
}
