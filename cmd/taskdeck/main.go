// cmd/taskdeck/main.go
//
// This is the entry point for the taskdeck CLI.
// When you run `taskdeck` from any directory, this is what executes.
//
// Flow:
// 1. Make sure .taskdeck/ exists and read its config
// 2. Build the in-memory store (seeded, optionally slowed down)
// 3. Open a session controller over it and launch the TUI

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/taskdeck/internal/config"
	"github.com/kingrea/taskdeck/internal/logbook"
	"github.com/kingrea/taskdeck/internal/session"
	"github.com/kingrea/taskdeck/internal/store"
	"github.com/kingrea/taskdeck/internal/task"
	"github.com/kingrea/taskdeck/internal/tui"
)

func main() {
	// The working directory is the "project" taskdeck keeps its config in
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}
	if err := run(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(projectDir string) error {
	if err := config.InitDir(projectDir); err != nil {
		return err
	}
	cfg, err := config.Load(projectDir)
	if err != nil {
		return err
	}

	book, err := logbook.New(cfg.ActivityLogPath())
	if err != nil {
		return err
	}

	seed, err := seedTasks(cfg)
	if err != nil {
		return err
	}
	mem := store.NewMemoryStore(store.WithTasks(seed...))
	var st store.Store = mem
	if latency := cfg.StoreLatency(); latency != (store.Latency{}) {
		st = store.NewDelayed(mem, latency)
	}

	ctrl, err := session.New(st,
		session.WithLogger(book),
		session.WithFilter(cfg.DefaultFilter()),
	)
	if err != nil {
		return err
	}
	book.Info("[%s] session opened with %d tasks", ctrl.ID()[:8], mem.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app, err := tui.NewApp(ctrl,
		tui.WithContext(ctx),
		tui.WithActivityLog(book, cfg.LogLines()),
	)
	if err != nil {
		return err
	}

	// Use alternate screen buffer (like vim does)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	book.Info("[%s] session closed", ctrl.ID()[:8])
	return nil
}

func seedTasks(cfg *config.Config) ([]task.Fields, error) {
	var seed []task.Fields
	if cfg.UseBuiltinSeed() {
		seed = append(seed, store.DefaultSeed()...)
	}
	if path := cfg.SeedFile(); path != "" {
		extra, err := store.LoadSeedFile(path)
		if err != nil {
			return nil, err
		}
		seed = append(seed, extra...)
	}
	return seed, nil
}
