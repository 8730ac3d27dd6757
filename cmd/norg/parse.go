package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"norg/internal/diagfmt"
	"norg/internal/driver"
	"norg/internal/observ"
	"norg/internal/source"
	"norg/internal/token"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.norg|directory|->",
	Short: "Parse Norg files into token trees",
	Long: `Parse resolves attached modifiers in a Norg file, in every *.norg file of a
directory (in parallel), or in standard input when the argument is "-".`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack|source)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	parseCmd.Flags().StringSlice("exclude", nil, "skip paths matching these globs (relative to the directory, ** allowed)")
	parseCmd.Flags().Bool("nfc", false, "normalise input to Unicode NFC")
	parseCmd.Flags().Bool("cache", false, "reuse parse results cached by content hash")
	parseCmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/norg)")
	parseCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	parseCmd.Flags().Bool("spans", false, "show byte offsets in pretty output")
	parseCmd.Flags().Int("width", 60, "truncate word text in pretty output (0=off)")
}

func runParse(cmd *cobra.Command, args []string) error {
	target := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readSwitch("ui", uiFlag)
	if err != nil {
		return err
	}
	spans, _ := cmd.Flags().GetBool("spans")
	width, _ := cmd.Flags().GetInt("width")
	treeOpts := diagfmt.TreeOpts{Color: s.color.enabled(os.Stdout), Width: width, ShowSpans: spans}

	opts := driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		NFC:            s.nfc,
		Jobs:           s.jobs,
		Exclude:        s.exclude,
		Timings:        s.timings,
	}
	if s.cache {
		if opts.Cache, err = openCache(s); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		res := driver.ParseBytes(ctx, "<stdin>", content, opts)
		return finishSingle(out, cmd.ErrOrStderr(), res, s, treeOpts)
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		res, err := driver.Parse(ctx, target, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		return finishSingle(out, cmd.ErrOrStderr(), res, s, treeOpts)
	}

	var dirRes *driver.DirResult
	if progressWanted(mode, s.quiet) {
		dirRes, err = parseDirWithUI(ctx, target, opts)
	} else {
		dirRes, err = driver.ParseDir(ctx, target, opts)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	failed := false
	for _, r := range dirRes.Files {
		if r.Bag.HasErrors() {
			failed = true
		}
		if err := printDiagnostics(cmd.ErrOrStderr(), r.Bag, dirRes.FileSet, s); err != nil {
			return err
		}
	}
	printTimings(cmd.ErrOrStderr(), target, dirRes.Timing, s)
	if err := writeDir(out, dirRes, s, treeOpts); err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func openCache(s settings) (*driver.DiskCache, error) {
	if s.cacheDir != "" {
		return driver.OpenDiskCacheAt(s.cacheDir)
	}
	return driver.OpenDiskCache("norg")
}

func finishSingle(out, errOut io.Writer, res *driver.ParseResult, s settings, treeOpts diagfmt.TreeOpts) error {
	if err := printDiagnostics(errOut, res.Bag, res.FileSet, s); err != nil {
		return err
	}
	path := displayPath(res.FileSet, res.File)
	printTimings(errOut, path, res.Timing, s)
	if err := writeTree(out, path, res.Tokens, s.format, treeOpts); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func writeTree(out io.Writer, path string, tokens []token.Token, format treeFormat, treeOpts diagfmt.TreeOpts) error {
	switch format {
	case formatJSON:
		return diagfmt.FormatTreeJSON(out, path, tokens)
	case formatMsgpack:
		return diagfmt.FormatTreeMsgpack(out, path, tokens)
	case formatSource:
		_, err := io.WriteString(out, token.Source(tokens))
		return err
	default:
		return diagfmt.FormatTreePretty(out, tokens, treeOpts)
	}
}

// writeDir печатает деревья всех файлов. JSON идёт одним массивом, msgpack
// потоком сообщений по одному на файл, pretty и source с заголовком "== path ==".
func writeDir(out io.Writer, res *driver.DirResult, s settings, treeOpts diagfmt.TreeOpts) error {
	if s.format == formatJSON {
		trees := make([]diagfmt.TreeOutput, 0, len(res.Files))
		for _, r := range res.Files {
			trees = append(trees, diagfmt.BuildTreeOutput(displayPath(res.FileSet, res.FileSet.Get(r.FileID)), r.Tokens))
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(trees)
	}

	for idx, r := range res.Files {
		if r.Err != nil {
			continue
		}
		path := displayPath(res.FileSet, res.FileSet.Get(r.FileID))
		framed := !s.quiet && (s.format == formatPretty || s.format == formatSource)
		if framed {
			if _, err := fmt.Fprintf(out, "== %s ==\n", path); err != nil {
				return err
			}
		}
		if err := writeTree(out, path, r.Tokens, s.format, treeOpts); err != nil {
			return err
		}
		if framed && idx < len(res.Files)-1 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
	}
	return nil
}

// printTimings дублирует OBS6001 таблицей, когда диагностика идёт текстом.
func printTimings(w io.Writer, title string, report *observ.Report, s settings) {
	if report == nil || s.diagFormat != "pretty" {
		return
	}
	diagfmt.Timings(w, title, *report)
}

func displayPath(fs *source.FileSet, f *source.File) string {
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	return f.FormatPath("auto", fs.BaseDir())
}
