package parser

import (
	"fmt"
	"slices"

	"norg/internal/diag"
	"norg/internal/lexer"
	"norg/internal/source"
	"norg/internal/token"
)

// pending: незакрытый открывающий разделитель.
type pending struct {
	index int         // позиция плейсхолдера в r.out
	open  token.Token // литеральное слово разделителя
	// isolated: разделитель стоял между пробелами (" - "), такие тихо остаются текстом
	isolated bool
}

type resolver struct {
	lx     *lexer.Lexer
	opts   Options
	out    []token.Token
	stacks [token.ModifierCount][]pending
}

func (r *resolver) run() []token.Token {
	for {
		lm := r.lx.Next()
		switch lm.Kind {
		case lexer.LexEOF:
			r.finish(lm.Token.Span)
			return r.out
		case lexer.LexToken:
			r.out = append(r.out, lm.Token)
		case lexer.LexDelimiter:
			r.delimiter(lm)
		}
	}
}

func (r *resolver) delimiter(lm lexer.Lexeme) {
	kind, ok := token.ModifierFor(lm.Char)
	if !ok {
		panic(fmt.Errorf("parser: delimiter %q has no modifier kind", lm.Char))
	}

	if len(r.stacks[token.Verbatim]) > 0 {
		// внутри verbatim значим только закрывающий '`'
		if kind == token.Verbatim && lm.Closing {
			r.close(kind, lm)
			r.lx.SetRaw(false)
			return
		}
		r.out = append(r.out, lm.Token)
		return
	}

	switch {
	case lm.Closing && len(r.stacks[kind]) > 0:
		r.close(kind, lm)
	case lm.Opening:
		r.stacks[kind] = append(r.stacks[kind], pending{
			index:    len(r.out),
			open:     lm.Token,
			isolated: lm.Closing,
		})
		r.out = append(r.out, lm.Token)
		if kind == token.Verbatim {
			r.lx.SetRaw(true)
		}
	default:
		if lm.Closing && r.opts.Reporter != nil {
			diag.ReportInfo(r.opts.Reporter, diag.SynUnmatchedCloser, lm.Token.Span,
				fmt.Sprintf("'%c' closes no %s modifier; kept as literal text", lm.Char, kind)).
				Emit()
		}
		r.out = append(r.out, lm.Token)
	}
}

// close снимает верхний открыватель вида kind и сворачивает всё после
// его плейсхолдера в один Modifier.
func (r *resolver) close(kind token.ModifierKind, lm lexer.Lexeme) {
	st := r.stacks[kind]
	p := st[len(st)-1]
	r.stacks[kind] = st[:len(st)-1]

	mod := token.Token{
		Kind:     token.Modifier,
		Modifier: kind,
		Range:    source.Range{Start: p.open.Range.Start, End: lm.Token.Range.End},
		Span:     p.open.Span.Cover(lm.Token.Span),
		Children: slices.Clone(r.out[p.index+1:]),
	}
	r.out = append(r.out[:p.index], mod)

	// Дерево не хранит пересекающихся span. Открыватели других видов, стоящие после
	// p, уже лежат в mod.Children; их закрыватель оказался бы снаружи mod, поэтому
	// они снимаются со стеков здесь и остаются литералами внутри mod.
	for k := range r.stacks {
		for n := len(r.stacks[k]); n > 0 && r.stacks[k][n-1].index > p.index; n-- {
			inner := r.stacks[k][n-1]
			r.stacks[k] = r.stacks[k][:n-1]
			r.reportUnclosed(token.ModifierKind(k), inner).
				WithNote(lm.Token.Span, fmt.Sprintf("enclosing %s modifier closes here", kind)).
				Emit()
		}
	}
}

// finish: оставшиеся открыватели уже стоят в выводе литеральными словами.
func (r *resolver) finish(eof source.Span) {
	for k := range r.stacks {
		for _, p := range r.stacks[k] {
			r.reportUnclosed(token.ModifierKind(k), p).
				WithNote(eof, fmt.Sprintf("no closing '%c' before end of input", token.ModifierKind(k).Char())).
				Emit()
		}
		r.stacks[k] = nil
	}
}

func (r *resolver) reportUnclosed(kind token.ModifierKind, p pending) *diag.ReportBuilder {
	if r.opts.Reporter == nil {
		return nil
	}
	sev := diag.SevWarning
	if p.isolated {
		sev = diag.SevInfo
	}
	return diag.NewReportBuilder(r.opts.Reporter, sev, diag.SynUnclosedModifier, p.open.Span,
		fmt.Sprintf("unclosed %s modifier; '%c' kept as literal text", kind, kind.Char()))
}
