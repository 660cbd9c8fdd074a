package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipecanvas/internal/bridge"
)

func TestNewApp_Builtin(t *testing.T) {
	a, logs := SetupAppTest(t, Config{})

	_, ok := a.Registry().Module("csv-file")
	assert.True(t, ok)
	assert.NotEmpty(t, a.Designer().Modules())
	assert.Contains(t, logs.String(), "Catalog ready.")
}

func TestNewApp_CatalogPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sampler.yaml"), []byte(`
modules:
  - id: sampler
    name: Sampler
    kind: processor
    variants:
      - id: default
        ports:
          - {name: in, direction: input}
          - {name: out, direction: output}
`), 0o644))

	a, _ := SetupAppTest(t, Config{SkipBuiltin: true, CatalogPaths: []string{root}})

	mods := a.Registry().Modules()
	require.Len(t, mods, 1)
	assert.Equal(t, "sampler", mods[0].ID)
}

func TestNewApp_BrokenCatalog(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.hcl"), []byte(`module "x" {`), 0o644))

	cfg := DefaultConfig()
	cfg.CatalogPaths = []string{root}
	valid, err := NewConfig(cfg)
	require.NoError(t, err)

	_, err = NewApp(&bytes.Buffer{}, valid)
	assert.ErrorContains(t, err, "failed to load catalog")
}

func TestRoutes(t *testing.T) {
	a, _ := SetupAppTest(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mux := a.routes(bridge.NewServer(ctx, a.designer, a.metrics))

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK 0 nodes, 0 edges, saved\n", rec.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "pipecanvas_graph_nodes_placed_total")
	})
}

func TestRun_HTTPDisabled(t *testing.T) {
	a, logs := SetupAppTest(t, Config{ListenPort: 0})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Contains(t, logs.String(), "HTTP server not started")
	require.NoError(t, a.shutdown(context.Background()))
}

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		level, format string
		debugLogged   bool
		jsonOutput    bool
	}{
		{"debug", "text", true, false},
		{"info", "json", false, true},
		{"bogus", "text", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.level+"/"+tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tc.level, tc.format, &buf)
			logger.Debug("debug line")
			logger.Info("info line")

			assert.Equal(t, tc.debugLogged, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, buf.String(), "info line")
			assert.Equal(t, tc.jsonOutput, bytes.HasPrefix(buf.Bytes(), []byte("{")))
		})
	}
}
