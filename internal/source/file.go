package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"
)

// FileID indexes a File inside its FileSet.
type FileID uint32

// FileFlags records how a file's bytes were obtained.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // из памяти: stdin, тесты
	FileHadBOM                               // UTF-8 BOM срезан
	FileNormalizedCRLF                       // \r\n заменены на \n
	FileNormalizedNFC                        // приведён к NFC
)

// File is one loaded document. Content is immutable once added.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // смещения всех '\n'
	Hash    [32]byte // sha256 от Content, ключ дискового кэша
	Flags   FileFlags
}

// LineCol is a 1-based line and a 1-based column counted in runes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Text returns the bytes covered by span, or "" for an invalid span.
func (f *File) Text(span Span) string {
	if span.End < span.Start || int(span.End) > len(f.Content) {
		return ""
	}
	return string(f.Content[span.Start:span.End])
}

// GetLine returns line n (1-based) without its newline; "" past the end.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start, end := 0, len(f.Content)
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// position maps a byte offset to LineCol. Offsets past the end clamp to it.
func (f *File) position(off uint32) LineCol {
	size := mustU32(len(f.Content))
	off = min(off, size)
	// число переводов строки строго до off
	line, _ := slices.BinarySearch(f.LineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = f.LineIdx[line-1] + 1
	}
	col := utf8.RuneCount(f.Content[lineStart:off])
	return LineCol{
		Line: mustU32(line + 1),
		Col:  mustU32(col + 1),
	}
}

// FormatPath renders f.Path for display.
// mode: "absolute", "relative" (against baseDir or the working directory),
// "basename" or "auto" (short and relative paths as is, otherwise the base name).
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source: offset overflow: %w", err))
	}
	return v
}
