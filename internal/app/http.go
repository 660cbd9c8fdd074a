package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/pipecanvas/internal/bridge"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/engine"
)

// healthHandler reports liveness together with a one-line workflow summary.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	st := a.designer.Status(r.Context())
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK %s\n", engine.Describe(st))
}

// Handler returns the HTTP surface of the app: /health, /metrics and the
// socket.io endpoint. The returned function disconnects every renderer.
func (a *App) Handler(ctx context.Context) (http.Handler, func()) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	srv := bridge.NewServer(ctx, a.designer, a.metrics)
	return a.routes(srv), srv.Close
}

func (a *App) routes(srv *bridge.Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", a.metrics.Handler())
	mux.Handle("/socket.io/", srv.Handler())
	return mux
}

func (a *App) shutdown(ctx context.Context) error {
	a.logger.Debug("Closing HTTP server...")
	if a.httpServer == nil {
		a.logger.Debug("HTTP server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a.logger.Info("🎨 Shutting down designer server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}

	a.logger.Debug("HTTP server shut down gracefully.")
	return nil
}
