package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONDiagnostics(t *testing.T) {
	fs, bag := parseInto(t, "docs/a.norg", "x *a _b* c_ {open")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 3 || len(out.Diagnostics) != 3 || out.Errors != 0 || out.Warnings != 2 {
		t.Fatalf("out = %+v", out)
	}
	first := out.Diagnostics[0]
	if first.Code != "SYN2001" || first.Severity != "WARNING" || first.Title != "Unclosed attached modifier" {
		t.Errorf("first = %+v", first)
	}
	loc := first.Location
	if loc.File != "docs/a.norg" || loc.Bytes[0] != 5 || loc.Start == nil || *loc.Start != (Position{Line: 1, Col: 6}) {
		t.Errorf("location = %+v", loc)
	}
	if len(first.Notes) != 1 {
		t.Errorf("notes = %+v", first.Notes)
	}
	if out.Diagnostics[2].Code != "LEX1001" {
		t.Errorf("last = %+v", out.Diagnostics[2])
	}
}

func TestJSONMax(t *testing.T) {
	fs, bag := parseInto(t, "a.norg", "*a /b _c")
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Diagnostics[0].Notes != nil {
		t.Errorf("out = %+v", out)
	}
	if out.Diagnostics[0].Location.Start != nil {
		t.Errorf("positions included without IncludePositions")
	}
}

func TestJSONPositionsOmitted(t *testing.T) {
	fs, bag := parseInto(t, "a.norg", "*a")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"start"`)) {
		t.Errorf("start position present:\n%s", buf.String())
	}
}
