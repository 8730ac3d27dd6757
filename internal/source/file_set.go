package source

import (
	"crypto/sha256"
	"fmt"
	"os"
)

// LoadOptions controls the normalisation LoadWith applies after decoding.
type LoadOptions struct {
	NFC bool
}

// FileSet owns every file of one run. IDs are dense and start at 0.
// A FileSet is not safe for concurrent mutation; the driver loads files
// sequentially and only reads them from workers.
type FileSet struct {
	files   []File
	baseDir string // база для относительных путей в выводе
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase задаёт каталог, относительно которого печатаются пути.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

// BaseDir returns the base directory, defaulting to the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores content as is under a new FileID. Adding the same path twice
// yields two independent files.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	id := FileID(mustU32(len(fs.files)))
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id
}

// AddVirtual adds in-memory content (stdin, tests) without normalisation.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path from disk, strips a BOM and folds CRLF.
func (fs *FileSet) Load(path string) (FileID, error) {
	return fs.LoadWith(path, LoadOptions{})
}

// LoadWith is Load with optional NFC normalisation.
func (fs *FileSet) LoadWith(path string, opts LoadOptions) (FileID, error) {
	// #nosec G304 -- путь передаёт пользователь
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := decode(raw, opts)
	return fs.Add(path, content, flags), nil
}

// Get panics on an ID from another FileSet.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		panic(fmt.Errorf("source: file id %d out of range (%d files)", id, len(fs.files)))
	}
	return &fs.files[id]
}

// Resolve converts span to 1-based line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return f.position(span.Start), f.position(span.End)
}
