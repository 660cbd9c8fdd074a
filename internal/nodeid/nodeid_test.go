package nodeid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, ID("node-1"), g.Next())
	assert.Equal(t, ID("node-2"), g.Next())
	assert.Equal(t, uint64(3), g.Peek())

	g.Reset()
	assert.Equal(t, ID("node-1"), g.Next())
}

func TestGenerator_Concurrent(t *testing.T) {
	g := NewGenerator()
	const n = 100

	var mu sync.Mutex
	seen := make(map[ID]struct{})
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Next()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	assert.Equal(t, uint64(n+1), g.Peek())
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    uint64
		wantErr bool
	}{
		{"first node", "node-1", 1, false},
		{"large counter", "node-1024", 1024, false},
		{"empty", "", 0, true},
		{"zero is never issued", "node-0", 0, true},
		{"leading zero", "node-01", 0, true},
		{"preview id", "preview:csv-file", 0, true},
		{"wrong prefix", "n-1", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPreview(t *testing.T) {
	id := Preview("kmeans")
	assert.Equal(t, ID("preview:kmeans"), id)
	assert.True(t, IsPreview(id))
	assert.False(t, IsPreview(New(1)))
	assert.Equal(t, "node-7", New(7).String())
}
