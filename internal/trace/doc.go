// Package trace records what the norg driver is doing: spans for the whole
// command, for each pass (load, cache, lex+resolve) and for each file of a
// directory run.
//
// Трассировка включается флагами CLI:
//
//	norg parse --trace=- --trace-level=detail notes/
//	norg parse --trace-mode=ring --trace-level=debug notes/   # дамп только при ошибке
//
// Трассировщик передаётся через context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "resolve", parent)
//	defer span.End("")
//
// Уровень отсекает события по Scope: phase пропускает driver и pass,
// detail добавляет файлы, debug пропускает всё.
package trace
