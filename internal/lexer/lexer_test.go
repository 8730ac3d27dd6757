package lexer_test

import (
	"testing"

	"norg/internal/diag"
	"norg/internal/lexer"
	"norg/internal/source"
	"norg/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.norg", []byte(input))
	rep := &testReporter{}
	return lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), rep
}

func collect(t *testing.T, input string) []lexer.Lexeme {
	t.Helper()
	lx, _ := makeTestLexer(input)
	var out []lexer.Lexeme
	for {
		lm := lx.Next()
		if lm.Kind == lexer.LexEOF {
			return out
		}
		out = append(out, lm)
		if len(out) > len(input)+1 {
			t.Fatalf("lexer does not make progress on %q", input)
		}
	}
}

func rng(l1, c1, l2, c2 uint32) source.Range {
	return source.Range{Start: source.Pos{Line: l1, Col: c1}, End: source.Pos{Line: l2, Col: c2}}
}

func TestGrouping(t *testing.T) {
	type want struct {
		kind token.Kind
		text string
		r    source.Range
	}
	tests := []struct {
		input string
		want  []want
	}{
		{"", nil},
		{"neorg", []want{{token.Word, "neorg", rng(0, 0, 0, 5)}}},
		{"neorg parser    ", []want{
			{token.Word, "neorg", rng(0, 0, 0, 5)},
			{token.Space, " ", rng(0, 5, 0, 6)},
			{token.Word, "parser", rng(0, 6, 0, 12)},
			{token.Space, "    ", rng(0, 12, 0, 16)},
		}},
		{"\n", []want{{token.SoftBreak, "", rng(0, 0, 1, 0)}}},
		{"\n\n", []want{{token.ParagraphBreak, "", rng(0, 0, 2, 0)}}},
		{"\n\n\n", []want{
			{token.ParagraphBreak, "", rng(0, 0, 2, 0)},
			{token.SoftBreak, "", rng(2, 0, 3, 0)},
		}},
		{"\n\n\n\n", []want{
			{token.ParagraphBreak, "", rng(0, 0, 2, 0)},
			{token.ParagraphBreak, "", rng(2, 0, 4, 0)},
		}},
		{"héllo\twörld", []want{
			{token.Word, "héllo", rng(0, 0, 0, 5)},
			{token.Space, "\t", rng(0, 5, 0, 6)},
			{token.Word, "wörld", rng(0, 6, 0, 11)},
		}},
		{"a\nb", []want{
			{token.Word, "a", rng(0, 0, 0, 1)},
			{token.SoftBreak, "", rng(0, 1, 1, 0)},
			{token.Word, "b", rng(1, 0, 1, 1)},
		}},
	}
	for _, tt := range tests {
		got := collect(t, tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("%q: got %d lexemes, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, w := range tt.want {
			tok := got[i].Token
			if got[i].Kind != lexer.LexToken || tok.Kind != w.kind || tok.Text != w.text || tok.Range != w.r {
				t.Errorf("%q[%d]: got %s %q %s, want %s %q %s", tt.input, i, tok.Kind, tok.Text, tok.Range, w.kind, w.text, w.r)
			}
		}
	}
}

func TestSpansAreBytes(t *testing.T) {
	got := collect(t, "ёж ok")
	if len(got) != 3 {
		t.Fatalf("got %d lexemes", len(got))
	}
	if sp := got[0].Token.Span; sp.Start != 0 || sp.End != 4 {
		t.Errorf("word span = %v, want 0..4", sp)
	}
	if r := got[2].Token.Range; r != rng(0, 3, 0, 5) {
		t.Errorf("second word range = %s", r)
	}
}

func TestDelimiterCandidates(t *testing.T) {
	type flags struct {
		ch      rune
		opening bool
		closing bool
	}
	tests := []struct {
		input string
		want  []flags
	}{
		{"*bold*", []flags{{'*', true, false}, {'*', false, true}}},
		{"* x", []flags{{'*', true, true}}},
		{"a*b", []flags{{'*', false, false}}},
		{"x *y", []flags{{'*', true, false}}},
		{"y* x", []flags{{'*', false, true}}},
		{"*/both/*", []flags{{'*', true, false}, {'/', true, false}, {'/', false, true}, {'*', false, true}}},
		{"a/*b", []flags{{'/', false, false}, {'*', false, false}}},
		{"\n-x-\n", []flags{{'-', true, false}, {'-', false, true}}},
	}
	for _, tt := range tests {
		var got []flags
		for _, lm := range collect(t, tt.input) {
			if lm.Kind == lexer.LexDelimiter {
				got = append(got, flags{lm.Char, lm.Opening, lm.Closing})
			}
		}
		if len(got) != len(tt.want) {
			t.Errorf("%q: got %d delimiters %v, want %v", tt.input, len(got), got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q[%d]: got %+v, want %+v", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDelimiterLiteralWord(t *testing.T) {
	got := collect(t, "ab *")
	last := got[len(got)-1]
	if last.Kind != lexer.LexDelimiter {
		t.Fatalf("last lexeme is %v", last.Kind)
	}
	if last.Token.Kind != token.Word || last.Token.Text != "*" || last.Token.Range != rng(0, 3, 0, 4) {
		t.Errorf("delimiter literal = %s %q %s", last.Token.Kind, last.Token.Text, last.Token.Range)
	}
}

func TestDoubledDelimiterIsWord(t *testing.T) {
	got := collect(t, "**x --")
	if got[0].Kind != lexer.LexToken || got[0].Token.Text != "**" || got[0].Token.Range != rng(0, 0, 0, 2) {
		t.Errorf("first = %+v", got[0])
	}
	last := got[len(got)-1]
	if last.Kind != lexer.LexToken || last.Token.Text != "--" {
		t.Errorf("last = %+v", last)
	}
	// "*/**": '/' followed by a doubled run is not a closer
	for _, lm := range collect(t, "a/**") {
		if lm.Kind == lexer.LexDelimiter && lm.Closing {
			t.Errorf("'/' before a doubled run must not close")
		}
	}
}

func TestLink(t *testing.T) {
	got := collect(t, "see {https://x.org/a b}!")
	var link token.Token
	for _, lm := range got {
		if lm.Token.Kind == token.Link {
			link = lm.Token
		}
	}
	if link.Text != "https://x.org/a b" || link.Link != token.LinkURL {
		t.Fatalf("link = %+v", link)
	}
	if link.Range != rng(0, 4, 0, 23) || link.Span.Start != 4 || link.Span.End != 23 {
		t.Errorf("link position = %s %v", link.Range, link.Span)
	}
	if link.Source() != "{https://x.org/a b}" {
		t.Errorf("link source = %q", link.Source())
	}
}

func TestLinkFirstCloseWins(t *testing.T) {
	got := collect(t, "{a{b}c}")
	if got[0].Token.Kind != token.Link || got[0].Token.Text != "a{b" {
		t.Errorf("first = %+v", got[0].Token)
	}
	last := got[len(got)-1].Token
	if last.Kind != token.Word || last.Text != "}" {
		t.Errorf("stray brace = %+v", last)
	}
}

func TestLinkAcrossLines(t *testing.T) {
	got := collect(t, "{a\nb} x")
	if got[0].Token.Kind != token.Link || got[0].Token.Range != rng(0, 0, 1, 2) {
		t.Errorf("link = %+v", got[0].Token)
	}
	if got[2].Token.Range != rng(1, 3, 1, 4) {
		t.Errorf("word after link at %s", got[2].Token.Range)
	}
}

func TestUnterminatedLink(t *testing.T) {
	lx, rep := makeTestLexer("{open *text")
	lm := lx.Next()
	if lm.Token.Kind != token.Word || lm.Token.Text != "{open *text" {
		t.Errorf("unterminated link = %+v", lm.Token)
	}
	if lx.Next().Kind != lexer.LexEOF {
		t.Error("expected EOF after unterminated link")
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedLink {
		t.Errorf("diagnostics = %+v", rep.diagnostics)
	}
}

func TestRawModeBraces(t *testing.T) {
	lx, _ := makeTestLexer("{x}")
	lx.SetRaw(true)
	var texts []string
	for lm := lx.Next(); lm.Kind != lexer.LexEOF; lm = lx.Next() {
		if lm.Token.Kind != token.Word {
			t.Errorf("raw mode produced %s", lm.Token.Kind)
		}
		texts = append(texts, lm.Token.Text)
	}
	if len(texts) != 3 || texts[0] != "{" || texts[1] != "x" || texts[2] != "}" {
		t.Errorf("raw braces = %q", texts)
	}
}

func TestInvalidUTF8ReportedOncePerWord(t *testing.T) {
	lx, rep := makeTestLexer("a\xff\xfeb ok")
	lm := lx.Next()
	if lm.Token.Text != "a\xff\xfeb" || lm.Token.Range != rng(0, 0, 0, 4) {
		t.Errorf("word = %q %s", lm.Token.Text, lm.Token.Range)
	}
	for lx.Next().Kind != lexer.LexEOF {
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexInvalidUTF8 {
		t.Fatalf("diagnostics = %+v", rep.diagnostics)
	}
	if n := rep.diagnostics[0].Notes; len(n) != 1 || n[0].Span.Start != 1 {
		t.Errorf("notes = %+v", n)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("x")
	lx.Next()
	for i := 0; i < 3; i++ {
		if lm := lx.Next(); lm.Kind != lexer.LexEOF || lm.Token.Range != rng(0, 1, 0, 1) {
			t.Errorf("call %d after end: %+v", i, lm)
		}
	}
}

func TestAtoms(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.norg", []byte("*ж\n"))
	atoms := lexer.Atoms(fs.Get(id))
	if len(atoms) != 3 {
		t.Fatalf("got %d atoms", len(atoms))
	}
	if atoms[1].Char != 'ж' || atoms[1].Span.Start != 1 || atoms[1].Span.End != 3 || atoms[1].Range != rng(0, 1, 0, 2) {
		t.Errorf("atom[1] = %+v", atoms[1])
	}
	if atoms[2].Range != rng(0, 2, 1, 0) {
		t.Errorf("atom[2] range = %s", atoms[2].Range)
	}
}
