package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"norg/internal/diag"
	"norg/internal/source"
	"norg/internal/token"
)

// Текущая версия схемы: увеличивать при любом изменении CachedParse или token.Token.
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты разбора на диске по хэшу содержимого файла.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedParse is what one cache entry holds. Spans are stored with file ID 0
// and rebased onto the caller's file on load.
type CachedParse struct {
	Schema      uint16
	Path        string
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache opens the cache at $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог по первым двум символам, чтобы не держать тысячи файлов в одном месте.
	return filepath.Join(c.dir, "parse", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry. The write is atomic: readers see either
// the old entry or the new one.
func (c *DiskCache) Put(key [32]byte, entry *CachedParse) (err error) {
	if c == nil || entry == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = diskCacheSchemaVersion
	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(entry); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an entry. A missing entry or one written with another schema
// reports false without error.
func (c *DiskCache) Get(key [32]byte, out *CachedParse) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var entry CachedParse
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return false, fmt.Errorf("decode %s: %w", filepath.Base(f.Name()), err)
	}
	if entry.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = entry
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// сначала переименовываем, чтобы параллельный процесс не увидел полуудалённый каталог
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// toCached strips file IDs from a parse result.
func toCached(path string, tokens []token.Token, bag *diag.Bag) *CachedParse {
	entry := &CachedParse{Path: path, Tokens: cloneTree(tokens)}
	rebase(entry.Tokens, 0)
	if bag != nil {
		entry.Diagnostics = make([]diag.Diagnostic, 0, bag.Len())
		for _, d := range bag.Items() {
			if d.Code == diag.IOCacheError {
				continue
			}
			d.Notes = slices.Clone(d.Notes)
			entry.Diagnostics = append(entry.Diagnostics, d)
		}
		rebaseDiagnostics(entry.Diagnostics, 0)
	}
	return entry
}

// fromCached points a cached entry at file id and replays its diagnostics
// up to the limit of bag.
func fromCached(entry *CachedParse, id source.FileID, bag *diag.Bag) []token.Token {
	rebase(entry.Tokens, id)
	rebaseDiagnostics(entry.Diagnostics, id)
	for _, d := range entry.Diagnostics {
		if !bag.Add(d) {
			break
		}
	}
	return entry.Tokens
}

func cloneTree(tokens []token.Token) []token.Token {
	out := slices.Clone(tokens)
	for i := range out {
		if out[i].Kind == token.Modifier {
			out[i].Children = cloneTree(out[i].Children)
		}
	}
	return out
}

func rebase(tokens []token.Token, id source.FileID) {
	token.Walk(tokens, func(tok *token.Token, _ int) bool {
		tok.Span.File = id
		return true
	})
}

func rebaseDiagnostics(items []diag.Diagnostic, id source.FileID) {
	for i := range items {
		items[i].Primary.File = id
		for j := range items[i].Notes {
			items[i].Notes[j].Span.File = id
		}
	}
}
