package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
)

var (
	ErrMalformedSelection = errors.New("malformed selection")
	ErrUnknownModule      = errors.New("unknown module")
)

// Modules looks up catalog entries.
type Modules interface {
	Module(id string) (*model.ModuleDefinition, bool)
}

// Resolver produces the variant list of a module. It returns an empty list
// on failure.
type Resolver interface {
	Resolve(ctx context.Context, moduleID string) []model.VariantDefinition
}

// Listener is called with the new selection after every change.
type Listener func(Selection)

// Coordinator holds the current selection.
type Coordinator struct {
	nodes    graph.Reader
	modules  Modules
	resolver Resolver

	mu        sync.Mutex
	current   Selection
	listeners map[int]Listener
	nextID    int
}

// NewCoordinator creates a coordinator with an empty selection.
func NewCoordinator(nodes graph.Reader, modules Modules, resolver Resolver) *Coordinator {
	return &Coordinator{
		nodes:     nodes,
		modules:   modules,
		resolver:  resolver,
		current:   Empty{},
		listeners: make(map[int]Listener),
	}
}

// SelectNode selects a placed node. When the node is missing or incomplete a
// warning is logged and the previous selection is kept.
func (c *Coordinator) SelectNode(ctx context.Context, id nodeid.ID) error {
	logger := ctxlog.FromContext(ctx)
	if nodeid.IsPreview(id) {
		logger.Warn("Refusing to select a preview id as a node.", "node_id", id)
		return fmt.Errorf("%w: %s is a preview id", ErrMalformedSelection, id)
	}
	n, ok := c.nodes.Node(ctx, id)
	if !ok {
		logger.Warn("Selected node does not exist; keeping previous selection.", "node_id", id)
		return fmt.Errorf("%w: node %s not found", ErrMalformedSelection, id)
	}
	if n.ModuleID == "" {
		logger.Warn("Selected node has no module; keeping previous selection.", "node_id", id)
		return fmt.Errorf("%w: node %s has no module", ErrMalformedSelection, id)
	}
	c.set(Placed{NodeID: id})
	return nil
}

// PreviewModule selects a synthesized record of moduleID on its default
// variant. Resolution failures fall back to a record with no ports.
func (c *Coordinator) PreviewModule(ctx context.Context, moduleID string) error {
	def, ok := c.modules.Module(moduleID)
	if !ok {
		ctxlog.FromContext(ctx).Warn("Cannot preview unknown module; keeping previous selection.", "module_id", moduleID)
		return fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	variants := c.resolver.Resolve(ctx, moduleID)
	record := graph.NewNode(nodeid.Preview(moduleID), def, variants, graph.Position{})
	c.set(Preview{ModuleID: moduleID, Record: record})
	return nil
}

// Clear empties the selection.
func (c *Coordinator) Clear() {
	c.set(Empty{})
}

// Current returns the current selection.
func (c *Coordinator) Current() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// View returns the node record the inspector should show, read live from
// the store for placed selections. A placed selection whose node has gone
// away collapses to Empty.
func (c *Coordinator) View(ctx context.Context) (Selection, *graph.Node) {
	switch sel := c.Current().(type) {
	case Placed:
		n, ok := c.nodes.Node(ctx, sel.NodeID)
		if !ok {
			c.Forget(sel.NodeID)
			return Empty{}, nil
		}
		return sel, n
	case Preview:
		return sel, sel.Record.Clone()
	default:
		return Empty{}, nil
	}
}

// Forget clears the selection if it refers to node id.
func (c *Coordinator) Forget(id nodeid.ID) {
	c.mu.Lock()
	sel, ok := c.current.(Placed)
	if !ok || sel.NodeID != id {
		c.mu.Unlock()
		return
	}
	c.current = Empty{}
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	notify(listeners, Empty{})
}

// Subscribe registers fn for selection changes.
func (c *Coordinator) Subscribe(fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Coordinator) set(sel Selection) {
	c.mu.Lock()
	c.current = sel
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	notify(listeners, sel)
}

func (c *Coordinator) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(listeners []Listener, sel Selection) {
	for _, fn := range listeners {
		fn(sel)
	}
}
