package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"norg/internal/version"
)

// versionPayload is the --format json shape; empty fields are the ones not asked for.
type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show norg build metadata",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	full, _ := flags.GetBool("full")
	want := func(name string) bool {
		on, _ := flags.GetBool(name)
		return on || full
	}

	payload := versionPayload{Tool: "norg", Version: version.Plain()}
	if want("hash") {
		payload.GitCommit = orUnknown(version.Commit())
	}
	if want("message") {
		payload.GitMessage = orUnknown(version.GitMessage)
	}
	if want("date") {
		payload.BuildDate = orUnknown(version.Date())
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		// в терминал идёт раскрашенная версия
		printVersion(out, version.Version, payload)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func printVersion(out io.Writer, coloured string, p versionPayload) {
	fmt.Fprintf(out, "norg %s\n", coloured)
	for _, row := range [...]struct{ label, value string }{
		{"commit", p.GitCommit},
		{"message", p.GitMessage},
		{"built", p.BuildDate},
	} {
		if row.value != "" {
			fmt.Fprintf(out, "%-8s %s\n", row.label+":", row.value)
		}
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
