package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"norg/internal/driver"
	"norg/internal/ui"
)

type parseDirOutcome struct {
	result *driver.DirResult
	err    error
}

// dirRun is the work shown by the progress view; it reports into sink.
type dirRun func(ctx context.Context, sink driver.ProgressSink) (*driver.DirResult, error)

// parseDirWithUI запускает ParseDir в фоне и рисует прогресс, пока он идёт.
func parseDirWithUI(ctx context.Context, dir string, opts driver.Options) (*driver.DirResult, error) {
	files, err := driver.ListFiles(dir, opts.Exclude...)
	if err != nil {
		return nil, err
	}
	run := func(ctx context.Context, sink driver.ProgressSink) (*driver.DirResult, error) {
		opts.Progress = sink
		return driver.ParseDir(ctx, dir, opts)
	}
	return runWithProgress(ctx, "parsing "+dir, files, run, tea.WithOutput(os.Stderr))
}

// runWithProgress рисует прогресс run для files. Выход из UI до конца
// работы (q, ctrl+c) отменяет контекст run.
func runWithProgress(ctx context.Context, title string, files []string, run dirRun, teaOpts ...tea.ProgramOption) (*driver.DirResult, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan parseDirOutcome, 1)
	go func() {
		res, err := run(runCtx, driver.ChannelSink{Ch: events})
		outcomeCh <- parseDirOutcome{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), teaOpts...)
	_, uiErr := program.Run()
	cancel()
	// модель канал больше не читает: дочитываем, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	if errors.Is(outcome.err, context.Canceled) && ctx.Err() == nil {
		return outcome.result, fmt.Errorf("progress view closed before the run finished: %w", outcome.err)
	}
	return outcome.result, outcome.err
}

// progressWanted: прогресс рисуется в stderr, поэтому в auto смотрим на него,
// а stdout должен быть свободен для дерева (не терминал, не --quiet).
func progressWanted(mode switchMode, quiet bool) bool {
	if mode != modeAuto {
		return mode == modeOn
	}
	return !quiet && isTerminal(os.Stderr) && !isTerminal(os.Stdout)
}
