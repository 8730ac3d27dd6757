package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"norg/internal/lexer"
	"norg/internal/parser"
	"norg/internal/source"
)

func TestFormatTreePretty(t *testing.T) {
	tokens := parser.ParseString("*bold /it/* {x}\n")
	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, tokens, TreeOpts{ShowSpans: true}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`Modifier Bold [(0,0),(0,11)) bytes 0-11`,
		`  Word "bold" [(0,1),(0,5)) bytes 1-5`,
		`  Space " " [(0,5),(0,6)) bytes 5-6`,
		`  Modifier Italic [(0,6),(0,10)) bytes 6-10`,
		`    Word "it" [(0,7),(0,9)) bytes 7-9`,
		`Space " " [(0,11),(0,12)) bytes 11-12`,
		`Link Url "x" [(0,12),(0,15)) bytes 12-15`,
		`SoftBreak [(0,15),(1,0)) bytes 15-16`,
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTreePrettyWidth(t *testing.T) {
	tokens := parser.ParseString("abcdefghij")
	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, tokens, TreeOpts{Width: 4}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), `Word "abc…"`) {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatTreeJSON(t *testing.T) {
	tokens := parser.ParseString("see *bold*")
	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, "a.norg", tokens); err != nil {
		t.Fatal(err)
	}
	var out TreeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.File != "a.norg" || out.Count != 3 {
		t.Fatalf("out = %+v", out)
	}
	bold := out.Tokens[2]
	if bold.Kind != "Modifier" || bold.Modifier != "Bold" || len(bold.Children) != 1 || bold.Children[0].Text != "bold" {
		t.Errorf("bold = %+v", bold)
	}
	if bold.Range.Start.Col != 4 || bold.Range.End.Col != 10 || bold.StartByte != 4 || bold.EndByte != 10 {
		t.Errorf("bold position = %+v %d-%d", bold.Range, bold.StartByte, bold.EndByte)
	}
}

func TestFormatTreeMsgpack(t *testing.T) {
	tokens := parser.ParseString("`v` and {link}")
	var buf bytes.Buffer
	if err := FormatTreeMsgpack(&buf, "b.norg", tokens); err != nil {
		t.Fatal(err)
	}
	out, err := DecodeTreeMsgpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if out.File != "b.norg" || len(out.Tokens) != 5 {
		t.Fatalf("out = %+v", out)
	}
	if out.Tokens[0].Modifier != "Verbatim" || out.Tokens[4].Link != "Url" || out.Tokens[4].Text != "link" {
		t.Errorf("tokens = %+v", out.Tokens)
	}
}

func TestFormatLexemes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.norg", []byte("*x"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	var lexemes []lexer.Lexeme
	for lm := lx.Next(); lm.Kind != lexer.LexEOF; lm = lx.Next() {
		lexemes = append(lexemes, lm)
	}

	var buf bytes.Buffer
	if err := FormatLexemesPretty(&buf, lexemes); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Delimiter") || !strings.Contains(buf.String(), "(opening=true closing=false)") {
		t.Errorf("pretty lexemes:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatLexemesJSON(&buf, lexemes); err != nil {
		t.Fatal(err)
	}
	var out []LexemeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Kind != "Delimiter" || !out[0].Opening || out[1].Text != "x" {
		t.Errorf("json lexemes = %+v", out)
	}
}

func TestFormatAtoms(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.norg", []byte("a\n"))
	var buf bytes.Buffer
	if err := FormatAtomsPretty(&buf, lexer.Atoms(fs.Get(id))); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "LineBreak") || !strings.Contains(buf.String(), `'\n' at [(0,1),(1,0))`) {
		t.Errorf("atoms:\n%s", buf.String())
	}
}
