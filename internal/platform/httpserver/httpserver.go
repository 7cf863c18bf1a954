// Package httpserver wraps the standard http.Server with the startup and
// graceful-shutdown sequence the server binary uses.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const DefaultShutdownGrace = 10 * time.Second

// New builds an HTTP server with sane defaults for this project.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves srv until ctx is cancelled or the listener fails, then drains
// in-flight requests for up to grace.
func Run(ctx context.Context, srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("draining connections", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
