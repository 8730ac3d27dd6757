package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// maxFuzzInput ограничивает и сиды, и входы фаззера.
const maxFuzzInput = 64 << 10

// clampInput копирует вход, обрезая его до maxFuzzInput.
func clampInput(input []byte) []byte {
	return append([]byte(nil), input[:min(len(input), maxFuzzInput)]...)
}

// addCorpusSeeds добавляет *.norg из testdata и короткие входы на каждую ветку резолвера.
func addCorpusSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".norg" {
			return nil
		}
		// #nosec G304 -- путь из обхода testdata репозитория
		if src, err := os.ReadFile(path); err == nil {
			f.Add(clampInput(src))
		}
		return nil
	})

	for _, s := range []string{
		"",
		"*bold*",
		"* not bold",
		"*/both/*",
		"*a _b* c_",
		"`*raw* {x}`",
		"{unterminated *link",
		"**doubled** --",
		"a - b - c",
		"\n\n\n",
		"\xff*\xfe*",
	} {
		f.Add([]byte(s))
	}
}
