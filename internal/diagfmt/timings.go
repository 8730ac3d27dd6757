package diagfmt

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"norg/internal/observ"
)

// Timings печатает отчёт таймера таблицей: фаза, число замеров, мс, заметка.
func Timings(w io.Writer, title string, r observ.Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle("%s", title)
	}
	tw.AppendHeader(table.Row{"PHASE", "COUNT", "MS", "NOTE"})
	for _, p := range r.Phases {
		tw.AppendRow(table.Row{p.Name, p.Count, fmt.Sprintf("%.3f", p.DurationMS), p.Note})
	}
	tw.AppendFooter(table.Row{"total", "", fmt.Sprintf("%.3f", r.TotalMS), ""})
	tw.Render()
}
