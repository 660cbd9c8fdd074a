// Package testutil starts a complete pipecanvas server for end-to-end tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/pipecanvas/internal/app"
	"github.com/vk/pipecanvas/internal/probe"
)

// Harness is a designer served over a test HTTP server.
type Harness struct {
	App  *app.App
	Logs *app.SafeBuffer
	URL  string
}

// WriteFiles writes files, keyed by slash-separated relative path, below a
// fresh temporary directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// StartServer serves the builtin palette plus any manifests in files. The
// server and every renderer connection are closed when the test ends.
func StartServer(t *testing.T, files map[string]string) *Harness {
	t.Helper()

	cfg := app.Config{}
	if len(files) > 0 {
		cfg.CatalogPaths = []string{WriteFiles(t, files)}
	}
	a, logs := app.SetupAppTest(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	handler, closeRenderers := a.Handler(ctx)
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeRenderers()
		srv.Close()
		cancel()
	})

	return &Harness{App: a, Logs: logs, URL: srv.URL}
}

// Dial connects a probe client to the harness server.
func (h *Harness) Dial(t *testing.T) *probe.Client {
	t.Helper()
	client, err := probe.Dial(context.Background(), probe.Options{URL: h.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}
