package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/gigx/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := rootCommand(runner)

	err := app.Run(ctx, os.Args)
	if closeErr := runner.Close(); closeErr != nil {
		logger.Warn("failed to close database", "error", closeErr)
	}

	switch {
	case err == nil:
	case errors.Is(err, shared.ErrCancelled), errors.Is(err, context.Canceled):
		logger.Warn("search cancelled")
		os.Exit(130)
	case errors.Is(err, shared.ErrNotImplemented):
		logger.Warn("not implemented")
	default:
		logger.Fatalf("application error: %v", err)
	}
}
