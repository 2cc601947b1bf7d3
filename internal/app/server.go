package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// Start serves HTTP in the background. The returned channel is closed once a
// termination signal arrives.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr, "debug", a.formatter.Debug())

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

		sig := <-sigint
		slog.Info("termination signal received", "signal", sig.String())

		close(terminateChan)
	}()

	return terminateChan
}

// ShutdownTimeout bounds Stop, from server.shutdown_timeout.
func (a *App) ShutdownTimeout() time.Duration {
	if d := a.config.GetDuration("server.shutdown_timeout"); d > 0 {
		return d
	}
	return defaultShutdownTimeout
}

// Stop drains the HTTP server first so no new work arrives, then waits for
// background tasks, then closes the remaining resources in name order.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	// Background tasks see the cancellation and give up.
	if a.cancel != nil {
		a.cancel()
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.WarnContext(ctx, "background tasks ended with errors", "error", err)
	}

	names := make([]string, 0, len(a.closerFn))
	for name := range a.closerFn {
		if name != "HTTP Server" {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		if err := a.closerFn[name](ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
