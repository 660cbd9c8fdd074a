package nodeid

import "sync"

// Generator issues placed node ids. Ids are never reissued until Reset.
type Generator struct {
	mu   sync.Mutex
	next uint64
}

// NewGenerator returns a generator whose first id is "node-1".
func NewGenerator() *Generator {
	return &Generator{next: Base}
}

// Next issues the next id.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := New(g.next)
	g.next++
	return id
}

// Peek returns the counter value the next call to Next will use.
func (g *Generator) Peek() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next
}

// Reset restarts the counter at Base. It is only called when the whole
// workflow is discarded, so no live node can collide with a reissued id.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = Base
}
