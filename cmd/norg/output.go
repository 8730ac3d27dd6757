package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"norg/internal/diag"
	"norg/internal/diagfmt"
	"norg/internal/source"
)

// switchMode is the auto|on|off value of --color and --ui.
type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

func readSwitch(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on", "always", "true":
		return modeOn, nil
	case "off", "never", "false":
		return modeOff, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled решает auto по тому, терминал ли f.
func (m switchMode) enabled(f *os.File) bool {
	if m == modeAuto {
		return isTerminal(f)
	}
	return m == modeOn
}

type treeFormat string

const (
	formatPretty  treeFormat = "pretty"
	formatJSON    treeFormat = "json"
	formatMsgpack treeFormat = "msgpack"
	formatSource  treeFormat = "source"
)

func readTreeFormat(value string) (treeFormat, error) {
	switch f := treeFormat(strings.TrimSpace(strings.ToLower(value))); f {
	case formatPretty, formatJSON, formatMsgpack, formatSource:
		return f, nil
	case "":
		return formatPretty, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected pretty|json|msgpack|source)", value)
	}
}

// printDiagnostics печатает bag в stderr. В режиме --quiet остаются только
// ошибки и предупреждения.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, s settings) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	if s.quiet {
		bag.Filter(diag.SevWarning)
	}
	bag.Sort()
	if s.diagFormat == "json" {
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     s.color.enabled(os.Stderr),
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		Width:     120,
		ShowNotes: true,
	})
	return nil
}
