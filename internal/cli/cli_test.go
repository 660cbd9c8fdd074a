package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipecanvas/internal/hcl"
	"github.com/vk/pipecanvas/internal/yamlmanifest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	err := Execute(context.Background(), args, &out, &logs)
	return out.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	assert.Equal(t, code, exitErr.Code)
}

func TestCatalog_Text(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)

	assert.Contains(t, out, "(data-source)")
	assert.Contains(t, out, "csv-file")
	assert.Contains(t, out, "variant string_compare")
	assert.Contains(t, out, "noise_data:")
}

func TestCatalog_YAMLRoundTrips(t *testing.T) {
	out, err := run(t, "catalog", "--format", "yaml")
	require.NoError(t, err)

	c, err := yamlmanifest.NewLoader().LoadBytes(context.Background(), []byte(out), "catalog.yaml")
	require.NoError(t, err)
	assert.Contains(t, c.Order(), "dbscan-cluster")
	assert.Len(t, c.Variants["conditional"], 2)
}

func TestUsageErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"catalog", "--format", "xml"}},
		{name: "unknown flag", args: []string{"catalog", "--bogus"}},
		{name: "bad log level", args: []string{"serve", "--log-level", "loud"}},
		{name: "empty palette", args: []string{"catalog", "--skip-builtin"}},
		{name: "bad port", args: []string{"serve", "--port", "70000"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			requireExitCode(t, err, 2)
		})
	}
}

func TestProbe_BadURL(t *testing.T) {
	_, err := run(t, "probe", "--url", "localhost:8080")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a scheme and a host")
}

func TestHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "catalog")
	assert.Contains(t, out, "probe")
}

func TestCatalog_HCLRoundTrips(t *testing.T) {
	out, err := run(t, "catalog", "--format", "hcl")
	require.NoError(t, err)

	c, err := hcl.NewLoader().LoadBytes(context.Background(), []byte(out), "catalog.hcl")
	require.NoError(t, err)
	assert.Contains(t, c.Order(), "csv-file")
	assert.Len(t, c.Variants["dbscan-cluster"], 2)
}
