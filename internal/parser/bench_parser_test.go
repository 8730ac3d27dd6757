package parser_test

import (
	"bytes"
	"testing"

	"norg/internal/diag"
	"norg/internal/parser"
	"norg/internal/source"
)

func benchParse(b *testing.B, doc []byte) {
	fs := source.NewFileSetWithBase("")
	fileID := fs.AddVirtual("bench.norg", doc)
	file := fs.Get(fileID)

	b.ReportAllocs()
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()

	for b.Loop() {
		bag := diag.NewBag(0)
		parser.ParseFile(file, parser.Options{
			Reporter: &diag.BagReporter{Bag: bag},
		})
	}
}

func BenchmarkParseShort(b *testing.B) {
	benchParse(b, []byte("*neorg* is a /structured/ note format with `verbatim` and {https://neorg.org}"))
}

func BenchmarkParseLarge(b *testing.B) {
	var buf bytes.Buffer
	for i := range 2000 {
		buf.WriteString("paragraph with *bold /nested/ text* and _under_ ")
		buf.WriteByte(byte('a' + (i % 26)))
		buf.WriteString(" - a dash, `code {x}` and {link}\n\n")
	}
	benchParse(b, buf.Bytes())
}

func BenchmarkParseUnclosed(b *testing.B) {
	var buf bytes.Buffer
	for range 5000 {
		buf.WriteString("*open /also _never closed ")
	}
	benchParse(b, buf.Bytes())
}
