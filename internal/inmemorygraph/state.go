package inmemorygraph

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
)

// state is the graph itself. Stored nodes are never mutated in place, so a
// shallow copy of the maps and slices is enough to roll a transaction back.
type state struct {
	nodes map[nodeid.ID]*graph.Node
	order []nodeid.ID
	edges []graph.Edge
	saved bool
}

func newState() *state {
	return &state{
		nodes: make(map[nodeid.ID]*graph.Node),
		saved: true,
	}
}

func (s *state) clone() *state {
	nodes := make(map[nodeid.ID]*graph.Node, len(s.nodes))
	for k, v := range s.nodes {
		nodes[k] = v
	}
	return &state{
		nodes: nodes,
		order: slices.Clone(s.order),
		edges: slices.Clone(s.edges),
		saved: s.saved,
	}
}

// txn implements graph.Tx over a state the caller has locked. It records
// the changes it makes so they can be published after commit.
type txn struct {
	st      *state
	changes []graph.Change
}

var _ graph.Tx = (*txn)(nil)

func (t *txn) Node(_ context.Context, id nodeid.ID) (*graph.Node, bool) {
	n, ok := t.st.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

func (t *txn) Nodes(_ context.Context) []*graph.Node {
	out := make([]*graph.Node, 0, len(t.st.order))
	for _, id := range t.st.order {
		out = append(out, t.st.nodes[id].Clone())
	}
	return out
}

func (t *txn) Edges(_ context.Context) []graph.Edge {
	return slices.Clone(t.st.edges)
}

func (t *txn) EdgesOf(_ context.Context, id nodeid.ID) []graph.Edge {
	var out []graph.Edge
	for _, e := range t.st.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

func (t *txn) AddNode(_ context.Context, n *graph.Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("node id is required")
	}
	if nodeid.IsPreview(n.ID) {
		return fmt.Errorf("%w: %s", graph.ErrPreviewNode, n.ID)
	}
	if _, exists := t.st.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", graph.ErrNodeExists, n.ID)
	}
	if len(n.Variants) > 0 {
		if _, ok := n.Variant(); !ok {
			return fmt.Errorf("%w: %q on node %s", graph.ErrUnknownVariant, n.VariantID, n.ID)
		}
	}

	t.st.nodes[n.ID] = n.Clone()
	t.st.order = append(t.st.order, n.ID)
	t.changes = append(t.changes, graph.Change{Kind: graph.NodeAdded, NodeID: n.ID})
	return nil
}

func (t *txn) AddEdge(_ context.Context, e graph.Edge) (graph.Edge, error) {
	src, ok := t.st.nodes[e.Source.Node]
	if !ok {
		return graph.Edge{}, fmt.Errorf("%w: source %s", graph.ErrNodeNotFound, e.Source.Node)
	}
	dst, ok := t.st.nodes[e.Target.Node]
	if !ok {
		return graph.Edge{}, fmt.Errorf("%w: target %s", graph.ErrNodeNotFound, e.Target.Node)
	}

	srcPort, ok := src.DisplayablePort(model.Output, e.Source.Port)
	if !ok {
		return graph.Edge{}, fmt.Errorf("%w: output %q on %s", graph.ErrPortNotDisplayable, e.Source.Port, src.ID)
	}
	dstPort, ok := dst.DisplayablePort(model.Input, e.Target.Port)
	if !ok {
		return graph.Edge{}, fmt.Errorf("%w: input %q on %s", graph.ErrPortNotDisplayable, e.Target.Port, dst.ID)
	}

	var srcUsed, dstUsed int
	for _, existing := range t.st.edges {
		if existing.Source == e.Source && existing.Target == e.Target {
			return graph.Edge{}, fmt.Errorf("%w: %s.%s -> %s.%s", graph.ErrDuplicateEdge,
				e.Source.Node, e.Source.Port, e.Target.Node, e.Target.Port)
		}
		if existing.Source == e.Source {
			srcUsed++
		}
		if existing.Target == e.Target {
			dstUsed++
		}
		if e.ID != "" && existing.ID == e.ID {
			return graph.Edge{}, fmt.Errorf("edge id %q is already in use", e.ID)
		}
	}
	if !dstPort.AllowMultiple && dstUsed > 0 {
		return graph.Edge{}, fmt.Errorf("%w: input %q on %s", graph.ErrPortOccupied, dstPort.Name, dst.ID)
	}
	if !srcPort.AllowMultiple && srcUsed > 0 {
		return graph.Edge{}, fmt.Errorf("%w: output %q on %s", graph.ErrPortOccupied, srcPort.Name, src.ID)
	}

	if e.ID == "" {
		e.ID = "edge-" + uuid.NewString()
	}
	t.st.edges = append(t.st.edges, e)
	t.changes = append(t.changes, graph.Change{Kind: graph.EdgeAdded, EdgeID: e.ID})
	return e, nil
}

func (t *txn) RemoveEdges(_ context.Context, pred func(graph.Edge) bool) []graph.Edge {
	var removed []graph.Edge
	kept := t.st.edges[:0:0]
	for _, e := range t.st.edges {
		if pred(e) {
			removed = append(removed, e)
			t.changes = append(t.changes, graph.Change{Kind: graph.EdgeRemoved, EdgeID: e.ID})
			continue
		}
		kept = append(kept, e)
	}
	t.st.edges = kept
	return removed
}

func (t *txn) UpdateNode(_ context.Context, id nodeid.ID, patch graph.Patch) (*graph.Node, error) {
	current, ok := t.st.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	updated, err := patch.Apply(current)
	if err != nil {
		return nil, err
	}

	if patch.AffectsPorts() {
		for _, e := range t.st.edges {
			if e.Source.Node == id {
				if _, ok := updated.DisplayablePort(model.Output, e.Source.Port); !ok {
					return nil, fmt.Errorf("%w: %s (output %q)", graph.ErrDanglingEdge, e.ID, e.Source.Port)
				}
			}
			if e.Target.Node == id {
				if _, ok := updated.DisplayablePort(model.Input, e.Target.Port); !ok {
					return nil, fmt.Errorf("%w: %s (input %q)", graph.ErrDanglingEdge, e.ID, e.Target.Port)
				}
			}
		}
	}

	t.st.nodes[id] = updated
	t.changes = append(t.changes, graph.Change{Kind: graph.NodeUpdated, NodeID: id})
	return updated.Clone(), nil
}

func (t *txn) RemoveNode(ctx context.Context, id nodeid.ID) (*graph.Node, []graph.Edge, error) {
	n, ok := t.st.nodes[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	removed := t.RemoveEdges(ctx, func(e graph.Edge) bool { return e.Touches(id) })
	delete(t.st.nodes, id)
	t.st.order = slices.DeleteFunc(t.st.order, func(x nodeid.ID) bool { return x == id })
	t.changes = append(t.changes, graph.Change{Kind: graph.NodeRemoved, NodeID: id})
	return n.Clone(), removed, nil
}
