package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"norg/internal/diag"
	"norg/internal/observ"
	"norg/internal/parser"
	"norg/internal/source"
	"norg/internal/token"
	"norg/internal/trace"
)

// DefaultMaxDiagnostics is used when Options.MaxDiagnostics is not set.
const DefaultMaxDiagnostics = 100

// Options controls loading and parsing of one file or a directory.
type Options struct {
	// MaxDiagnostics caps diagnostics per file; <= 0 means DefaultMaxDiagnostics.
	MaxDiagnostics int
	// NFC normalises file content to Unicode NFC on load.
	NFC bool
	// Jobs limits ParseDir workers; <= 0 means GOMAXPROCS.
	Jobs int
	// Exclude holds doublestar patterns, relative to the ParseDir root, to skip.
	Exclude []string
	// Cache, when set, is consulted before parsing and filled after.
	Cache *DiskCache
	// Timings adds an OBS6001 diagnostic with per-phase durations.
	Timings  bool
	Progress ProgressSink
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	// Cached is true when Tokens came from the disk cache.
	Cached bool
	Timing *observ.Report
}

// Parse loads path and resolves it into a token tree.
// Load failures are returned as errors; everything else becomes a diagnostic.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "parse", trace.CurrentSpan(ctx).SpanID)
	defer span.End(path)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	timer := observ.NewTimer()
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	stopLoad := timer.Start("load")
	fs := source.NewFileSet()
	fileID, err := fs.LoadWith(path, source.LoadOptions{NFC: opts.NFC})
	stopLoad("")
	if err != nil {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return finishParse(ctx, fs, fs.Get(fileID), timer, opts), nil
}

// ParseBytes parses in-memory content (stdin, editor buffers) under name.
// Content is not normalised except for NFC when requested.
func ParseBytes(ctx context.Context, name string, content []byte, opts Options) *ParseResult {
	timer := observ.NewTimer()
	if opts.NFC {
		content, _ = source.NormalizeNFC(content)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return finishParse(ctx, fs, fs.Get(id), timer, opts)
}

func finishParse(ctx context.Context, fs *source.FileSet, file *source.File, timer *observ.Timer, opts Options) *ParseResult {
	start := time.Now()
	bag := newBag(opts)
	tokens, cached := parseFile(ctx, file, bag, opts, timer)
	emit(opts.Progress, Event{File: file.Path, Stage: StageResolve, Status: StatusDone, Elapsed: time.Since(start)})

	res := &ParseResult{FileSet: fs, File: file, Tokens: tokens, Bag: bag, Cached: cached}
	if opts.Timings {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(bag, file.ID, timingPayload{
			Kind: "parse", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases,
		})
	}
	return res
}

// parseFile is the per-file pipeline shared by Parse and ParseDir:
// cache lookup, lexing and resolution, cache fill.
func parseFile(ctx context.Context, file *source.File, bag *diag.Bag, opts Options, timer *observ.Timer) ([]token.Token, bool) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	if opts.Cache != nil {
		emit(opts.Progress, Event{File: file.Path, Stage: StageCache, Status: StatusWorking})
		start := time.Now()
		sp := trace.Begin(tracer, trace.ScopePass, "cache", parent)
		var entry CachedParse
		hit, err := opts.Cache.Get(file.Hash, &entry)
		timer.Add("cache", time.Since(start))
		if err != nil {
			reportCacheError(bag, file, "read", err)
		}
		if hit {
			sp.End("hit")
			return fromCached(&entry, file.ID, bag), true
		}
		sp.End("miss")
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageResolve, Status: StatusWorking})
	start := time.Now()
	sp := trace.Begin(tracer, trace.ScopePass, "lex+resolve", parent)
	collect := bag
	if opts.Cache != nil {
		// в кэш уходит полный список, лимит этого запуска режет только результат
		collect = diag.NewBag(-1)
	}
	tokens := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: collect}})
	sp.WithExtra("tokens", strconv.Itoa(len(tokens))).End("")
	timer.Add("resolve", time.Since(start))

	if opts.Cache != nil {
		for _, d := range collect.Items() {
			if !bag.Add(d) {
				break
			}
		}
		if err := opts.Cache.Put(file.Hash, toCached(file.Path, tokens, collect)); err != nil {
			reportCacheError(bag, file, "write", err)
		}
	}
	return tokens, false
}

func newBag(opts Options) *diag.Bag {
	if opts.MaxDiagnostics <= 0 {
		return diag.NewBag(DefaultMaxDiagnostics)
	}
	return diag.NewBag(opts.MaxDiagnostics)
}

func reportCacheError(bag *diag.Bag, file *source.File, op string, err error) {
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.IOCacheError,
		Message:  fmt.Sprintf("parse cache %s failed: %v", op, err),
		Primary:  source.Span{File: file.ID},
	})
}
