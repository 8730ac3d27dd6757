package lexer

import (
	"norg/internal/diag"
	"norg/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда мягкие ошибки молча восстанавливаем
}

func (lx *Lexer) warn(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	if lx.opts.Reporter == nil {
		return nil
	}
	return diag.ReportWarning(lx.opts.Reporter, code, sp, msg)
}
