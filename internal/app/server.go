package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Start runs the console and, when enabled, the HTTP server. The returned
// channel is closed once the console session ends or a termination signal
// arrives.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})
	var once sync.Once
	terminate := func() {
		once.Do(func() { close(terminateChan) })
	}

	if a.httpServer != nil {
		a.goroutine.Go(a.ctx, "http-server", func(context.Context) error {
			slog.Info("http server listening", "address", a.httpServer.Addr)

			if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to listen and serve http server", "error", err)
				terminate()
				return err
			}
			return nil
		})
	}

	a.goroutine.Go(a.ctx, "console", func(ctx context.Context) error {
		defer terminate()
		return a.ledger.Run(ctx)
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		select {
		case <-sigint:
			slog.Info("termination signal received")
			terminate()
		case <-terminateChan:
		}
	}()

	return terminateChan
}

func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if closer, ok := a.closerFn["HTTP Server"]; ok {
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
		}
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	for name, closer := range a.closerFn {
		if name == "HTTP Server" {
			continue
		}
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")

	if a.logFile != nil {
		//nolint:errcheck,gosec // last action before exit
		a.logFile.Close()
	}
}
