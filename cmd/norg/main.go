package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"norg/internal/version"
)

// errDiagnostics сообщает main, что ошибки уже напечатаны как диагностики.
var errDiagnostics = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:           "norg",
	Short:         "Norg inline markup parser",
	Long:          `norg turns Norg documents into position-tagged token trees with resolved attached modifiers`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = stopProfiles
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
}

// traceCleanup закрывает трассировщик; ставится в PersistentPreRunE.
var traceCleanup = func(bool) {}

// profileCleanup останавливает pprof и пишет heap-профиль.
var profileCleanup = func() error { return nil }

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("diagnostics", "pretty", "diagnostics format on stderr (pretty|json)")
	rootCmd.PersistentFlags().String("config", "", "path to norg.toml (default: search upwards from the working directory)")
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	err := rootCmd.Execute()
	traceCleanup(err != nil)
	if perr := profileCleanup(); perr != nil {
		fmt.Fprintf(os.Stderr, "norg: %v\n", perr)
	}
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "norg: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
