package utils

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandling returns a context that is cancelled on SIGINT or
// SIGTERM. onShutdown runs once, on the first signal. Call stop to release
// the handler.
func SetupSignalHandling(parent context.Context, onShutdown func()) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			slog.Warn("received signal, shutting down", "signal", sig.String())
			cancel()
			if onShutdown != nil {
				onShutdown()
			}
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
