package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"norg/internal/diag"
	"norg/internal/parser"
	"norg/internal/source"
	"norg/internal/token"
)

func openTestCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestDiskCacheMiss(t *testing.T) {
	c := openTestCache(t)
	var entry CachedParse
	hit, err := c.Get([32]byte{1}, &entry)
	if hit || err != nil {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
}

func TestDiskCacheNil(t *testing.T) {
	var c *DiskCache
	if err := c.Put([32]byte{}, &CachedParse{}); err != nil {
		t.Fatal(err)
	}
	if hit, err := c.Get([32]byte{}, &CachedParse{}); hit || err != nil {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := openTestCache(t)
	fs := source.NewFileSet()
	fs.AddVirtual("pad.norg", nil)
	id := fs.AddVirtual("x.norg", []byte("*a _b* c"))
	file := fs.Get(id)

	firstBag := diag.NewBag(10)
	firstTokens := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: firstBag}})
	if err := c.Put(file.Hash, toCached(file.Path, firstTokens, firstBag)); err != nil {
		t.Fatal(err)
	}
	// исходное дерево не должно пострадать от подготовки записи
	if firstTokens[0].Span.File != id || firstBag.Items()[0].Primary.File != id {
		t.Fatalf("toCached rebased caller data")
	}

	// в другом FileSet тот же файл получает другой ID
	id = 0

	var entry CachedParse
	hit, err := c.Get(file.Hash, &entry)
	if !hit || err != nil {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
	bag := diag.NewBag(10)
	tokens := fromCached(&entry, id, bag)
	if token.Source(tokens) != "*a _b* c" {
		t.Errorf("source = %q", token.Source(tokens))
	}
	token.Walk(tokens, func(tok *token.Token, _ int) bool {
		if tok.Span.File != id {
			t.Errorf("token %s not rebased: %v", tok.Kind, tok.Span)
		}
		return true
	})
	if bag.Len() != firstBag.Len() {
		t.Fatalf("replayed %d diagnostics, want %d", bag.Len(), firstBag.Len())
	}
	for _, d := range bag.Items() {
		if d.Primary.File != id {
			t.Errorf("diagnostic %s not rebased", d.Code.ID())
		}
		for _, n := range d.Notes {
			if n.Span.File != id {
				t.Errorf("note of %s not rebased", d.Code.ID())
			}
		}
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	c := openTestCache(t)
	key := [32]byte{7}
	if err := c.Put(key, &CachedParse{Path: "a"}); err != nil {
		t.Fatal(err)
	}
	var entry CachedParse
	if hit, err := c.Get(key, &entry); !hit || err != nil || entry.Path != "a" {
		t.Fatalf("hit=%v err=%v entry=%+v", hit, err, entry)
	}

	// Put всегда проставляет текущую схему, поэтому старую запись пишем вручную
	data, err := msgpack.Marshal(&CachedParse{Schema: diskCacheSchemaVersion + 1, Path: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.pathFor(key), data, 0o600); err != nil {
		t.Fatal(err)
	}
	if hit, err := c.Get(key, &entry); hit || err != nil {
		t.Fatalf("stale schema: hit=%v err=%v", hit, err)
	}
}

func TestDiskCacheCorrupt(t *testing.T) {
	c := openTestCache(t)
	key := [32]byte{9}
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{0xc1, 0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	var entry CachedParse
	if _, err := c.Get(key, &entry); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	c := openTestCache(t)
	key := [32]byte{3}
	if err := c.Put(key, &CachedParse{Path: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	var entry CachedParse
	if hit, err := c.Get(key, &entry); hit || err != nil {
		t.Fatalf("after DropAll: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("cache dir not recreated: %v", err)
	}
}

func TestParseUsesCache(t *testing.T) {
	c := openTestCache(t)
	path := writeFile(t, t.TempDir(), "c.norg", "say *hi* {x")
	opts := Options{Cache: c}

	first, err := Parse(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || !second.Cached {
		t.Fatalf("cached flags: first=%v second=%v", first.Cached, second.Cached)
	}
	if token.Source(second.Tokens) != token.Source(first.Tokens) {
		t.Errorf("cached source = %q", token.Source(second.Tokens))
	}
	for i := range first.Tokens {
		if first.Tokens[i].Range != second.Tokens[i].Range || first.Tokens[i].Kind != second.Tokens[i].Kind {
			t.Errorf("token %d differs: %+v vs %+v", i, first.Tokens[i], second.Tokens[i])
		}
	}
	if second.Bag.Len() != 1 || second.Bag.Items()[0].Code != diag.LexUnterminatedLink {
		t.Errorf("cached diagnostics = %+v", second.Bag.Items())
	}
}

func TestCachedDiagnosticsIgnoreWriterLimit(t *testing.T) {
	c := openTestCache(t)
	path := writeFile(t, t.TempDir(), "many.norg", "*a *b *c *d *e *f *g *h *i *j")

	tests := []struct {
		limit  int
		want   int
		cached bool
	}{
		{limit: 2, want: 2, cached: false},
		{limit: 100, want: 10, cached: true},
		{limit: 3, want: 3, cached: true},
	}
	for _, tt := range tests {
		res, err := Parse(context.Background(), path, Options{Cache: c, MaxDiagnostics: tt.limit})
		if err != nil {
			t.Fatal(err)
		}
		if res.Cached != tt.cached || res.Bag.Len() != tt.want {
			t.Errorf("limit=%d: cached=%v diagnostics=%d, want cached=%v diagnostics=%d",
				tt.limit, res.Cached, res.Bag.Len(), tt.cached, tt.want)
		}
	}
}
