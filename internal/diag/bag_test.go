package diag

import (
	"slices"
	"testing"

	"norg/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(Diagnostic{Code: SynUnclosedModifier}) || !b.Add(Diagnostic{Code: SynUnmatchedCloser}) {
		t.Fatal("first two diagnostics must fit")
	}
	if b.Add(Diagnostic{Code: LexUnterminatedLink}) {
		t.Error("third diagnostic must be rejected")
	}
	if b.Len() != 2 || b.Cap() != 2 {
		t.Errorf("Len=%d Cap=%d", b.Len(), b.Cap())
	}
}

func TestBagNegativeLimitIsUnbounded(t *testing.T) {
	b := NewBag(-1)
	for i := 0; i < 300; i++ {
		b.Add(Diagnostic{})
	}
	if b.Len() != 300 {
		t.Errorf("Len = %d, want 300", b.Len())
	}
}

func TestBagSeverities(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevInfo})
	if b.HasWarnings() || b.HasErrors() {
		t.Error("info-only bag reports warnings")
	}
	b.Add(Diagnostic{Severity: SevWarning})
	if !b.HasWarnings() || b.HasErrors() {
		t.Error("warning not detected")
	}
	b.Filter(SevWarning)
	if b.Len() != 1 {
		t.Errorf("Filter kept %d diagnostics, want 1", b.Len())
	}
}

func TestBagSort(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevInfo, Code: SynUnmatchedCloser, Primary: sp(5, 6)})
	b.Add(Diagnostic{Severity: SevWarning, Code: LexUnterminatedLink, Primary: sp(0, 4)})
	b.Add(Diagnostic{Severity: SevWarning, Code: SynUnclosedModifier, Primary: sp(5, 6)})
	b.Add(Diagnostic{Severity: SevWarning, Code: LexInvalidUTF8, Primary: sp(5, 6)})
	b.Sort()

	var got []Code
	for _, d := range b.Items() {
		got = append(got, d.Code)
	}
	want := []Code{LexUnterminatedLink, LexInvalidUTF8, SynUnclosedModifier, SynUnmatchedCloser}
	if !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Code: SynInfo})
	other := NewBag(5)
	other.Add(Diagnostic{Code: LexInfo})
	other.Add(Diagnostic{Code: LexInvalidUTF8})
	a.Merge(other)
	if a.Len() != 3 {
		t.Errorf("Merge: Len = %d, want 3", a.Len())
	}
	a.Merge(nil)
}

func TestReportBuilder(t *testing.T) {
	b := NewBag(10)
	rep := BagReporter{Bag: b}
	builder := ReportWarning(rep, SynUnclosedModifier, sp(0, 1), "unclosed bold").
		WithNote(sp(0, 1), "opened here")
	builder.Emit()
	builder.Emit()
	if b.Len() != 1 {
		t.Fatalf("Emit must fire once, bag has %d", b.Len())
	}
	d := b.Items()[0]
	if d.Severity != SevWarning || len(d.Notes) != 1 || d.Message != "unclosed bold" {
		t.Errorf("unexpected diagnostic %+v", d)
	}

	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(sp(0, 0), "x").Emit()
	BagReporter{}.Report(SynInfo, SevInfo, sp(0, 0), "dropped", nil)
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnterminatedLink: "LEX1001",
		SynUnclosedModifier: "SYN2001",
		IOLoadFileError:     "IO4001",
		ObsTimings:          "OBS6001",
		Code(9999):          "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("Code(%d).ID() = %q, want %q", c, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown title = %q", Code(9999).Title())
	}
	if SynUnclosedModifier.String() != "[SYN2001]: Unclosed attached modifier" {
		t.Errorf("String = %q", SynUnclosedModifier.String())
	}
}
