package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"norg/internal/diag"
	"norg/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(f, fs, opts.PathMode), start.Line, start.Col,
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, f, fs, d.Primary, opts, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
}

// writeSnippet печатает строки контекста и строку с подчёркиванием.
// Колонки подчёркивания считаются в ширине терминала, а не в рунах.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	start, end := fs.Resolve(sp)
	first := start.Line
	if opts.Context > 0 {
		back := uint32(opts.Context)
		if back >= first {
			back = first - 1
		}
		first -= back
	}
	gw := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		text := clipLine(f.GetLine(ln), int(opts.Width))
		fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprintf("%*d", gw, ln), pal.gutter.Sprint("|"), text)
	}

	line := f.GetLine(start.Line)
	lineRunes := uint32(utf8.RuneCountInString(line))
	stopCol := end.Col
	if end.Line != start.Line || stopCol > lineRunes+1 {
		stopCol = lineRunes + 1
	}
	pad := runewidth.StringWidth(runePrefix(line, start.Col-1))
	width := runewidth.StringWidth(runePrefix(line, stopCol-1)) - pad
	if width < 1 {
		width = 1
	}
	if opts.Width > 0 && pad+width > int(opts.Width) {
		width = max(1, int(opts.Width)-pad)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s %s%s\n", strings.Repeat(" ", gw), pal.gutter.Sprint("|"), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n uint32) string {
	i := 0
	for k := uint32(0); k < n && i < len(s); k++ {
		_, sz := utf8.DecodeRuneInString(s[i:])
		i += sz
	}
	return s[:i]
}

func clipLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
