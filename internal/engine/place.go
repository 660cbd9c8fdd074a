package engine

import (
	"context"
	"fmt"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/metrics"
	"github.com/vk/pipecanvas/internal/placement"
)

// PointerResult reports what a pointer release did.
type PointerResult struct {
	Action placement.Action
	Node   *graph.Node
}

// SetSurface records the renderer's latest container, scroll and viewport.
func (d *Designer) SetSurface(s placement.Surface) {
	d.surfaceMu.Lock()
	defer d.surfaceMu.Unlock()
	d.surface = s
}

// Surface returns the last surface set.
func (d *Designer) Surface() placement.Surface {
	d.surfaceMu.RLock()
	defer d.surfaceMu.RUnlock()
	return d.surface
}

// PointerDown starts a press on a catalog module.
func (d *Designer) PointerDown(ctx context.Context, moduleID string, at placement.Point) error {
	if _, ok := d.catalog.Module(moduleID); !ok {
		ctxlog.FromContext(ctx).Warn("Pointer down on unknown module.", "module_id", moduleID)
		return fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	d.tracker.Down(moduleID, at)
	return nil
}

// PointerMove tracks the press in progress. It never touches the graph.
func (d *Designer) PointerMove(at placement.Point) bool {
	return d.tracker.Move(at)
}

// PointerUp ends the press. A click previews the module, a drag released
// over the canvas places it centered under the pointer, and anything else
// does nothing.
func (d *Designer) PointerUp(ctx context.Context, at placement.Point) (PointerResult, error) {
	rel, ok := d.tracker.Up(at, d.Surface())
	if !ok {
		return PointerResult{Action: placement.None}, nil
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Pointer released.", "module_id", rel.ModuleID, "gesture", rel.Gesture, "action", rel.Action)

	switch rel.Action {
	case placement.Preview:
		return PointerResult{Action: rel.Action}, d.PreviewModule(ctx, rel.ModuleID)
	case placement.Place:
		n, err := d.PlaceModule(ctx, rel.ModuleID, graph.Position{X: rel.Position.X, Y: rel.Position.Y})
		if err != nil {
			return PointerResult{Action: placement.None}, err
		}
		return PointerResult{Action: rel.Action, Node: n}, nil
	default:
		return PointerResult{Action: placement.None}, nil
	}
}

// PointerCancel abandons the press in progress.
func (d *Designer) PointerCancel() bool {
	return d.tracker.Cancel()
}

// PlaceModule creates a node of moduleID at the canvas position pos, which
// is the node's top-left corner.
func (d *Designer) PlaceModule(ctx context.Context, moduleID string, pos graph.Position) (*graph.Node, error) {
	def, ok := d.catalog.Module(moduleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}

	// Resolution never fails. A cancelled ctx yields an empty variant list
	// and the node is placed without ports.
	variants := <-d.resolver.ResolveAsync(ctx, moduleID)

	var node *graph.Node
	err := d.store.Atomically(ctx, func(tx graph.Tx) error {
		node = graph.NewNode(d.ids.Next(), def, variants, pos)
		return tx.AddNode(ctx, node)
	})
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("Node placed.", "node_id", node.ID, "module_id", moduleID, "variants", len(variants))
	d.record(func(m *metrics.Metrics) { m.NodePlaced() })
	return node.Clone(), nil
}
