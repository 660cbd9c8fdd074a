package graph

import (
	"context"
	"errors"

	"github.com/vk/pipecanvas/internal/nodeid"
)

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrNodeExists         = errors.New("node already exists")
	ErrPreviewNode        = errors.New("preview records cannot be placed")
	ErrEdgeNotFound       = errors.New("edge not found")
	ErrDuplicateEdge      = errors.New("ports are already connected")
	ErrPortNotDisplayable = errors.New("port is not displayable")
	ErrPortOccupied       = errors.New("port does not accept another connection")
	ErrDanglingEdge       = errors.New("change would leave an edge on a hidden port")
	ErrUnknownVariant     = errors.New("unknown variant")
)

// Reader is the read side of the graph.
type Reader interface {
	// Node returns a copy of one node.
	Node(ctx context.Context, id nodeid.ID) (*Node, bool)

	// Nodes returns copies of all nodes in insertion order.
	Nodes(ctx context.Context) []*Node

	// Edges returns all edges in insertion order.
	Edges(ctx context.Context) []Edge

	// EdgesOf returns the edges that touch node id.
	EdgesOf(ctx context.Context, id nodeid.ID) []Edge
}

// Tx is the set of graph mutations. The Store implements it directly, where
// each call is its own atomic write, and passes one to Atomically, where all
// calls commit or roll back together.
type Tx interface {
	Reader

	// AddNode inserts a new node.
	AddNode(ctx context.Context, n *Node) error

	// AddEdge inserts an edge and returns it. An empty edge id is filled in.
	AddEdge(ctx context.Context, e Edge) (Edge, error)

	// RemoveEdges deletes every edge matching pred and returns them.
	RemoveEdges(ctx context.Context, pred func(Edge) bool) []Edge

	// UpdateNode applies patch to a node and returns the updated copy.
	UpdateNode(ctx context.Context, id nodeid.ID, patch Patch) (*Node, error)

	// RemoveNode deletes a node together with every edge touching it.
	RemoveNode(ctx context.Context, id nodeid.ID) (*Node, []Edge, error)
}

// Store owns the workflow graph.
//
// Implementations MUST be safe for concurrent use. Listeners are invoked
// after a write commits, outside any internal lock, in subscription order.
type Store interface {
	Tx

	// Atomically runs fn against a transaction. If fn returns an error,
	// every change it made is discarded and the error is returned.
	Atomically(ctx context.Context, fn func(tx Tx) error) error

	// Status returns the workflow status.
	Status(ctx context.Context) Status

	// Snapshot returns a consistent copy of the graph and its status.
	Snapshot(ctx context.Context) Snapshot

	// MarkSaved records that the workflow has no unsaved changes.
	MarkSaved(ctx context.Context)

	// Reset empties the graph and marks it saved.
	Reset(ctx context.Context)

	// Subscribe registers a listener and returns a function removing it.
	Subscribe(fn Listener) (cancel func())
}
