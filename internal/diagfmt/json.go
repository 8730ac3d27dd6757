package diagfmt

import (
	"encoding/json"
	"io"

	"norg/internal/diag"
	"norg/internal/source"
)

// Position is a 1-based line and rune column.
type Position struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location is a byte range [Bytes[0], Bytes[1]) in File. Start and End are
// present only with JSONOpts.IncludePositions.
type Location struct {
	File  string    `json:"file"`
	Bytes [2]uint32 `json:"bytes"`
	Start *Position `json:"start,omitempty"`
	End   *Position `json:"end,omitempty"`
}

type NoteJSON struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type DiagnosticJSON struct {
	Code     string     `json:"code"`
	Severity string     `json:"severity"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Location Location   `json:"location"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON.
type DiagnosticsOutput struct {
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

type locator struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (l locator) locate(span source.Span) Location {
	loc := Location{
		File:  formatPath(l.fs.Get(span.File), l.fs, l.opts.PathMode),
		Bytes: [2]uint32{span.Start, span.End},
	}
	if l.opts.IncludePositions {
		start, end := l.fs.Resolve(span)
		loc.Start = &Position{Line: start.Line, Col: start.Col}
		loc.End = &Position{Line: end.Line, Col: end.Col}
	}
	return loc
}

// BuildDiagnosticsOutput converts bag without encoding it. Counters cover
// only the emitted diagnostics when opts.Max truncates the list.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	l := locator{fs: fs, opts: opts}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		dj := DiagnosticJSON{
			Code:     d.Code.ID(),
			Severity: d.Severity.String(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: l.locate(d.Primary),
		}
		// заметка с таймингами и есть полезная нагрузка, её не прячем
		if opts.IncludeNotes || d.Code == diag.ObsTimings {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: l.locate(n.Span)})
			}
		}
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), base)
}
