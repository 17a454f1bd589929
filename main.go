package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/trishajanath/altx-canvas/cmd"
	"github.com/trishajanath/altx-canvas/internal/observability"
)

func main() {
	// Graceful shutdown on SIGINT/SIGTERM; the serve command drains its
	// websocket clients before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
