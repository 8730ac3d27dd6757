package source

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode применяет нормализацию при загрузке с диска: BOM, затем CRLF, затем NFC.
func decode(raw []byte, opts LoadOptions) ([]byte, FileFlags) {
	var flags FileFlags
	content := raw
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if folded, changed := normalizeCRLF(content); changed {
		content = folded
		flags |= FileNormalizedCRLF
	}
	if opts.NFC {
		if nfc, changed := NormalizeNFC(content); changed {
			content = nfc
			flags |= FileNormalizedNFC
		}
	}
	return content, flags
}

// normalizeCRLF folds each "\r\n" into "\n". A lone '\r' stays.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

// NormalizeNFC приводит содержимое к NFC. Комбинируемые последовательности
// (e + U+0301) схлопываются в одну руну, что меняет счёт колонок.
func NormalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return idx
		}
		off += i
		idx = append(idx, mustU32(off))
		off++
	}
}

// normalizePath: единый вид путей на всех платформах.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the cleaned absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir, or absolute when p lies
// outside baseDir.
func RelativePath(p, baseDir string) (string, error) {
	absPath, err := AbsolutePath(p)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return absPath, nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return absPath, nil
	}
	return rel, nil
}
