package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"norg/internal/prof"
)

func addProfileFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	cmd.PersistentFlags().String("mem-profile", "", "write heap profile to file on exit")
	cmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")
}

// setupProfiling включает профили по глобальным флагам. Возвращённый cleanup
// можно вызывать повторно.
func setupProfiling(cmd *cobra.Command) (func() error, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPUPath, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.MemPath, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.TracePath, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return session.Stop, nil
}
