package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. The HTTP
// server is disabled unless cfg sets a port.
func SetupAppTest(t *testing.T, cfg Config) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	cfg.LogLevel = "debug"
	def := DefaultConfig()
	if cfg.LogFormat == "" {
		cfg.LogFormat = def.LogFormat
	}
	if cfg.NodeWidth == 0 {
		cfg.NodeWidth, cfg.NodeHeight = def.NodeWidth, def.NodeHeight
	}
	if cfg.ClickDistance == 0 {
		cfg.ClickDistance, cfg.ClickDuration = def.ClickDistance, def.ClickDuration
	}

	valid, err := NewConfig(cfg)
	require.NoError(t, err)
	testApp, err := NewApp(logBuffer, valid)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("PIPECANVAS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
