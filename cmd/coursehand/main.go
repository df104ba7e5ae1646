// Command coursehand is a desktop companion for video courses: it
// watches a Chrome session for supported learning-platform tabs,
// injects a capture button, extracts the lecture transcript on click
// and hands the templated prompt to an AI chat page.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/coursehand/coursehand/pipeline"
	"github.com/coursehand/coursehand/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogger installs the process-wide JSON logger.
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads the --config file, or defaults when none is given.
func loadConfig() (*pipeline.Config, error) {
	if flagConfig == "" {
		return pipeline.DefaultConfig(), nil
	}
	return pipeline.LoadConfigFile(flagConfig)
}

// openStore opens the shared record database from configuration.
func openStore(cfg *pipeline.Config) (*store.Store, error) {
	return store.Open(cfg.Store.Path, store.WithMkdirAll())
}
