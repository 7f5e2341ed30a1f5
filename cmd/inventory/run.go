package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/siudek-family/media-project/pkg/inventory/config"
	"github.com/siudek-family/media-project/pkg/inventory/filter"
	"github.com/siudek-family/media-project/pkg/inventory/journal"
	"github.com/siudek-family/media-project/pkg/inventory/logging"
	"github.com/siudek-family/media-project/pkg/inventory/report"
	"github.com/siudek-family/media-project/pkg/inventory/walker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveDir expands ~ and makes path absolute.
func resolveDir(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}

// isDir reports whether path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// printUsageHint prints how to invoke cmd. It is used for recoverable
// argument problems, which end the command without an error.
func printUsageHint(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n", cmd.UseLine())
	if cmd.Example != "" {
		fmt.Fprintf(out, "\nExamples:\n%s\n", cmd.Example)
	}
}

// runWalk runs one inventory walk with the loaded configuration and records
// it in the journal when it wrote to disk.
func runWalk(cmd *cobra.Command, op journal.Operation, opts walker.Options) (*walker.Result, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}

	engine, err := cfg.Engine()
	if err != nil {
		return nil, err
	}
	opts.Engine = engine

	exclude, err := filter.NewExclude(cfg.Exclude...)
	if err != nil {
		return nil, err
	}
	opts.Exclude = exclude

	if getQuiet() {
		opts.Out = report.Discard()
	} else {
		opts.Out = report.New(cmd.OutOrStdout())
	}

	w, err := walker.New(opts)
	if err != nil {
		return nil, err
	}

	printVerbose("Algorithm: %s, chunk size: %d bytes", engine.Algorithm, engine.ChunkSize)
	if len(exclude.Patterns()) > 0 {
		printVerbose("Excluding: %v", exclude.Patterns())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := w.Walk(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("\nInterrupted, stopping walk...")
		}
		return nil, err
	}

	if !res.Dry {
		recordRun(cfg, op, string(engine.Algorithm), exclude.Patterns(), res)
	}
	return res, nil
}

// recordRun appends res to the journal. Journal failures are logged and
// never fail the run.
func recordRun(cfg *config.Config, op journal.Operation, algorithm string, excludes []string, res *walker.Result) {
	if !cfg.Journal.Enabled || viper.GetBool("no_journal") {
		return
	}

	log := logging.Get("journal")
	j, err := journal.New(cfg.JournalPath())
	if err == nil {
		err = j.EnsureDir()
	}
	if err != nil {
		log.Warn("journal unavailable", "path", cfg.JournalPath(), "error", err)
		printVerbose("Journal unavailable: %v", err)
		return
	}

	rec, err := j.Record(journal.Run{
		Operation: op,
		Source:    res.Root,
		Target:    res.Target,
		Algorithm: algorithm,
		Excludes:  excludes,
		Summary:   res.Summary,
		Elapsed:   res.Elapsed,
	})
	if err != nil {
		log.Warn("journal write failed", "error", err)
		printVerbose("Journal write failed: %v", err)
		return
	}
	printVerbose("Recorded run %s", rec.ID)
}
