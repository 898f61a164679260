package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// runForeground runs startFn until SIGINT or SIGTERM arrives.
func runForeground(logger *zap.Logger, startFn func(ctx context.Context)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Received interrupt, shutting down")
	}()

	startFn(ctx)
}
