package version

import (
	"regexp"
	"runtime/debug"

	"github.com/fatih/color"
)

// Build metadata for the norg CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI, coloured when stdout allows it.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("3") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Plain returns Version without terminal colour codes, for JSON and file output.
func Plain() string {
	return ansiEscape.ReplaceAllString(Version, "")
}

// Commit is GitCommit, or the vcs.revision the toolchain stamped into the binary.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	return buildSetting("vcs.revision")
}

// Date is BuildDate, or the vcs.time of the stamped revision.
func Date() string {
	if BuildDate != "" {
		return BuildDate
	}
	return buildSetting("vcs.time")
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
