package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"norg/internal/diag"
	"norg/internal/observ"
	"norg/internal/source"
	"norg/internal/token"
	"norg/internal/trace"
)

// ParseDirResult содержит результат разбора одного файла
type ParseDirResult struct {
	Path   string        // путь к файлу
	FileID source.FileID // ID файла в общем FileSet
	Tokens []token.Token
	Bag    *diag.Bag
	Cached bool
	// Err is the load error, also reported as IO4001 in Bag.
	Err error
}

// DirResult is everything ParseDir produced, files in sorted path order.
type DirResult struct {
	FileSet *source.FileSet
	Files   []ParseDirResult
	Timing  *observ.Report
}

// ListFiles возвращает отсортированный список *.norg под dir. Пути
// относительно dir, совпавшие с одним из exclude (doublestar), пропускаются;
// совпавший каталог пропускается целиком.
func ListFiles(dir string, exclude ...string) ([]string, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if excluded(filepath.ToSlash(rel), exclude) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".norg") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		// шаблоны проверены в ListFiles, ошибки Match тут не бывает
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ParseDir parses every *.norg file under dir in parallel. A file that fails
// to load does not stop the run: its result carries an IO4001 diagnostic.
// The returned error is only set for listing failures and cancellation.
func ParseDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	files, err := ListFiles(dir, opts.Exclude...)
	if err != nil {
		return nil, err
	}
	out := &DirResult{FileSet: source.NewFileSetWithBase(dir)}
	if len(files) == 0 {
		return out, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "parse-dir", trace.CurrentSpan(ctx).SpanID)
	span.WithExtra("files", fmt.Sprint(len(files)))
	defer span.End(dir)

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet не потокобезопасен: грузим всё заранее в одной горутине
	timer := observ.NewTimer()
	stopLoad := timer.Start("load")
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := out.FileSet.LoadWith(path, source.LoadOptions{NFC: opts.NFC})
		if err != nil {
			loadErrors[path] = err
			// пустой виртуальный файл, чтобы диагностике было на что указывать
			fileID = out.FileSet.AddVirtual(path, nil)
		}
		fileIDs[path] = fileID
	}
	stopLoad(fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	out.Files = make([]ParseDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			start := time.Now()
			fileID := fileIDs[path]
			bag := newBag(opts)
			res := ParseDirResult{Path: path, FileID: fileID, Bag: bag}

			if loadErr, failed := loadErrors[path]; failed {
				res.Err = loadErr
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{File: fileID},
				})
				out.Files[i] = res
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}

			fileSpan := trace.Begin(tracer, trace.ScopeFile, "file:"+path, span.ID())
			fctx := trace.WithSpanContext(gctx, trace.SpanContext{SpanID: fileSpan.ID()})
			res.Tokens, res.Cached = parseFile(fctx, out.FileSet.Get(fileID), bag, opts, timer)
			fileSpan.End("")

			out.Files[i] = res
			emit(opts.Progress, Event{File: path, Stage: StageResolve, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}

	if opts.Timings {
		report := timer.Report()
		out.Timing = &report
		// сводка по каталогу висит на первом файле
		first := &out.Files[0]
		appendTimingDiagnostic(first.Bag, first.FileID, timingPayload{
			Kind: "parse-dir", Path: dir, Files: len(files), TotalMS: report.TotalMS, Phases: report.Phases,
		})
	}
	return out, nil
}
