package selection

import (
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/nodeid"
)

// Kind names the active alternative of a Selection.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindPlaced  Kind = "placed"
	KindPreview Kind = "preview"
)

// Selection is one of Empty, Placed or Preview.
type Selection interface {
	Kind() Kind
	isSelection()
}

// Empty means nothing is selected.
type Empty struct{}

// Placed refers to a node in the graph by id.
type Placed struct {
	NodeID nodeid.ID
}

// Preview is a module shown with its default configuration before
// placement.
type Preview struct {
	ModuleID string
	Record   *graph.Node
}

func (Empty) Kind() Kind   { return KindEmpty }
func (Placed) Kind() Kind  { return KindPlaced }
func (Preview) Kind() Kind { return KindPreview }

func (Empty) isSelection()   {}
func (Placed) isSelection()  {}
func (Preview) isSelection() {}
