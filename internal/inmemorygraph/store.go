package inmemorygraph

import (
	"context"
	"sync"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/nodeid"
)

// Store implements the graph.Store interface using maps and a mutex for
// thread-safe concurrent access.
type Store struct {
	mu sync.RWMutex
	st *state

	lmu       sync.Mutex
	listeners map[int]graph.Listener
	nextID    int
}

// New creates a new, empty in-memory graph store.
func New() graph.Store {
	return &Store{
		st:        newState(),
		listeners: make(map[int]graph.Listener),
	}
}

// read runs fn under the read lock.
func (s *Store) read(fn func(tx *txn)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&txn{st: s.st})
}

// write runs fn under the write lock. With rollback set, a failing fn leaves
// the state exactly as it was. Changes are published after the lock is
// released.
func (s *Store) write(ctx context.Context, rollback bool, fn func(tx *txn) error) error {
	s.mu.Lock()
	var backup *state
	if rollback {
		backup = s.st.clone()
	}
	tx := &txn{st: s.st}
	err := fn(tx)
	if err != nil {
		if rollback {
			s.st = backup
		}
		s.mu.Unlock()
		return err
	}
	if len(tx.changes) > 0 {
		s.st.saved = false
	}
	s.mu.Unlock()

	if len(tx.changes) > 0 {
		ctxlog.FromContext(ctx).Debug("Graph changes committed.", "changes", len(tx.changes))
		s.publish(tx.changes)
	}
	return nil
}

func (s *Store) publish(changes []graph.Change) {
	s.lmu.Lock()
	listeners := make([]graph.Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.lmu.Unlock()

	for _, fn := range listeners {
		fn(changes)
	}
}

// Subscribe implements graph.Store.
func (s *Store) Subscribe(fn graph.Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

// Node implements graph.Reader.
func (s *Store) Node(ctx context.Context, id nodeid.ID) (n *graph.Node, ok bool) {
	s.read(func(tx *txn) { n, ok = tx.Node(ctx, id) })
	return n, ok
}

// Nodes implements graph.Reader.
func (s *Store) Nodes(ctx context.Context) (nodes []*graph.Node) {
	s.read(func(tx *txn) { nodes = tx.Nodes(ctx) })
	return nodes
}

// Edges implements graph.Reader.
func (s *Store) Edges(ctx context.Context) (edges []graph.Edge) {
	s.read(func(tx *txn) { edges = tx.Edges(ctx) })
	return edges
}

// EdgesOf implements graph.Reader.
func (s *Store) EdgesOf(ctx context.Context, id nodeid.ID) (edges []graph.Edge) {
	s.read(func(tx *txn) { edges = tx.EdgesOf(ctx, id) })
	return edges
}

// AddNode implements graph.Tx.
func (s *Store) AddNode(ctx context.Context, n *graph.Node) error {
	return s.write(ctx, false, func(tx *txn) error { return tx.AddNode(ctx, n) })
}

// AddEdge implements graph.Tx.
func (s *Store) AddEdge(ctx context.Context, e graph.Edge) (out graph.Edge, err error) {
	err = s.write(ctx, false, func(tx *txn) error {
		out, err = tx.AddEdge(ctx, e)
		return err
	})
	return out, err
}

// RemoveEdges implements graph.Tx.
func (s *Store) RemoveEdges(ctx context.Context, pred func(graph.Edge) bool) (removed []graph.Edge) {
	_ = s.write(ctx, false, func(tx *txn) error {
		removed = tx.RemoveEdges(ctx, pred)
		return nil
	})
	return removed
}

// UpdateNode implements graph.Tx.
func (s *Store) UpdateNode(ctx context.Context, id nodeid.ID, patch graph.Patch) (n *graph.Node, err error) {
	err = s.write(ctx, false, func(tx *txn) error {
		n, err = tx.UpdateNode(ctx, id, patch)
		return err
	})
	return n, err
}

// RemoveNode implements graph.Tx.
func (s *Store) RemoveNode(ctx context.Context, id nodeid.ID) (n *graph.Node, removed []graph.Edge, err error) {
	err = s.write(ctx, false, func(tx *txn) error {
		n, removed, err = tx.RemoveNode(ctx, id)
		return err
	})
	return n, removed, err
}

// Atomically implements graph.Store.
func (s *Store) Atomically(ctx context.Context, fn func(tx graph.Tx) error) error {
	return s.write(ctx, true, func(tx *txn) error { return fn(tx) })
}

// Status implements graph.Store.
func (s *Store) Status(_ context.Context) graph.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return graph.Status{
		Saved:     s.st.saved,
		NodeCount: len(s.st.order),
		EdgeCount: len(s.st.edges),
	}
}

// Snapshot implements graph.Store.
func (s *Store) Snapshot(ctx context.Context) graph.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx := &txn{st: s.st}
	return graph.Snapshot{
		Nodes: tx.Nodes(ctx),
		Edges: tx.Edges(ctx),
		Status: graph.Status{
			Saved:     s.st.saved,
			NodeCount: len(s.st.order),
			EdgeCount: len(s.st.edges),
		},
	}
}

// MarkSaved implements graph.Store.
func (s *Store) MarkSaved(_ context.Context) {
	s.mu.Lock()
	s.st.saved = true
	s.mu.Unlock()
	s.publish([]graph.Change{{Kind: graph.GraphSaved}})
}

// Reset implements graph.Store.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.st = newState()
	s.mu.Unlock()
	ctxlog.FromContext(ctx).Debug("Graph reset.")
	s.publish([]graph.Change{{Kind: graph.GraphReset}})
}
