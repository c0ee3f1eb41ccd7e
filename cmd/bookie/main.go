package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/narayanwaraich/bookie-sub004/internal/cleanup"
	"github.com/narayanwaraich/bookie-sub004/internal/cli"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Partially written batch output is removed on exit
	tracker := cleanup.NewTracker(nil)
	defer tracker.Cleanup()

	if err := cli.ExecuteContext(ctx, tracker); err != nil {
		tracker.Cleanup()
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nInterrupted")
			os.Exit(130) // Standard exit code for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
