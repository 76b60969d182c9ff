package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// DefaultConfigPath is used when neither --config nor LIBROUTE_CONFIG is set.
const DefaultConfigPath = "config/libroute.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
