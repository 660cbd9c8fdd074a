package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/pipecanvas/internal/ctxlog"
)

// Run serves the designer until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListenPort <= 0 {
		a.logger.Warn("HTTP server not started: disabled")
		<-ctx.Done()
		return nil
	}

	handler, closeRenderers := a.Handler(ctx)
	defer closeRenderers()

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.ListenPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		a.logger.Info("🎨 Designer server starting", "address", fmt.Sprintf("http://localhost%s", a.httpServer.Addr))
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	err := a.shutdown(context.WithoutCancel(ctx))
	a.logger.Debug("App.Run method finished.")
	return err
}
