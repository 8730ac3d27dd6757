package driver

import (
	"context"
	"fmt"

	"norg/internal/diag"
	"norg/internal/lexer"
	"norg/internal/source"
	"norg/internal/trace"
)

// TokenizeResult holds the lexeme stream of one file before modifier resolution.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Lexemes []lexer.Lexeme
	Bag     *diag.Bag
}

// Tokenize runs only the grouping stage over path. Delimiters come out with
// their opening/closing candidacy; nothing is resolved and raw mode stays off.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "tokenize", trace.CurrentSpan(ctx).SpanID)
	defer span.End(path)

	// Создаём FileSet и загружаем файл
	fs := source.NewFileSet()
	fileID, err := fs.LoadWith(path, source.LoadOptions{NFC: opts.NFC})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	file := fs.Get(fileID)

	bag := newBag(opts)
	reporterAdapter := &lexer.ReporterAdapter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporterAdapter.Reporter()})

	// Собираем лексемы до EOF (сам EOF не кладём)
	var lexemes []lexer.Lexeme
	for {
		lm := lx.Next()
		if lm.Kind == lexer.LexEOF {
			break
		}
		lexemes = append(lexemes, lm)
	}

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Lexemes: lexemes,
		Bag:     bag,
	}, nil
}
