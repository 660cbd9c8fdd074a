package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pipecanvas/internal/connect"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/inspect"
	"github.com/vk/pipecanvas/internal/metrics"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/vk/pipecanvas/internal/reconcile"
)

// Connect creates an edge from an output port to an input port. The type
// check runs against the nodes as they are inside the same store write that
// adds the edge.
func (d *Designer) Connect(ctx context.Context, e graph.Edge) (graph.Edge, error) {
	for _, id := range []nodeid.ID{e.Source.Node, e.Target.Node} {
		if d.reconciler.IsPending(id) {
			d.record(func(m *metrics.Metrics) { m.ConnectionRejected(metrics.ReasonNodeBusy) })
			d.busy(ctx, id)
			return graph.Edge{}, fmt.Errorf("%w: %s", ErrNodeBusy, id)
		}
	}

	var added graph.Edge
	err := d.store.Atomically(ctx, func(tx graph.Tx) error {
		src, _ := tx.Node(ctx, e.Source.Node)
		dst, _ := tx.Node(ctx, e.Target.Node)
		if src != nil && dst != nil {
			if err := d.validator.Check(src, dst, e); err != nil {
				return err
			}
		}
		var err error
		added, err = tx.AddEdge(ctx, e)
		return err
	})
	if err != nil {
		var typeErr *connect.IncompatibleTypesError
		if errors.As(err, &typeErr) {
			d.record(func(m *metrics.Metrics) { m.ConnectionRejected(metrics.ReasonIncompatibleTypes) })
			d.notify(ctx, Notice{
				Kind: NoticeIncompatibleTypes,
				Message: fmt.Sprintf("Cannot connect %s (%s) to %s (%s): the types are incompatible.",
					typeErr.Source.Port, typeErr.SourceType, typeErr.Target.Port, typeErr.TargetType),
				SourceType: typeErr.SourceType,
				TargetType: typeErr.TargetType,
			})
			return graph.Edge{}, err
		}
		d.record(func(m *metrics.Metrics) { m.ConnectionRejected(metrics.ReasonStructural) })
		d.notify(ctx, Notice{Kind: NoticeConnectionRejected, Message: err.Error()})
		return graph.Edge{}, err
	}

	ctxlog.FromContext(ctx).Info("Edge created.", "edge_id", added.ID,
		"source", added.Source.Node, "source_port", added.Source.Port,
		"target", added.Target.Node, "target_port", added.Target.Port)
	d.record(func(m *metrics.Metrics) { m.EdgeCreated() })
	return added, nil
}

// CanConnect reports whether Connect would pass the type check for e.
func (d *Designer) CanConnect(ctx context.Context, e graph.Edge) bool {
	src, _ := d.store.Node(ctx, e.Source.Node)
	dst, _ := d.store.Node(ctx, e.Target.Node)
	return d.validator.CanConnect(src, dst, e)
}

// Disconnect removes an edge by id.
func (d *Designer) Disconnect(ctx context.Context, edgeID string) error {
	removed := d.store.RemoveEdges(ctx, func(e graph.Edge) bool { return e.ID == edgeID })
	if len(removed) == 0 {
		return fmt.Errorf("%w: %s", graph.ErrEdgeNotFound, edgeID)
	}
	ctxlog.FromContext(ctx).Info("Edge removed.", "edge_id", edgeID)
	return nil
}

// PatchNode edits a node. Property values are checked against the module's
// definitions first. Edits that would sever edges are parked and announced
// with a confirm-sever notice; everything else applies at once.
func (d *Designer) PatchNode(ctx context.Context, id nodeid.ID, patch graph.Patch) (reconcile.Result, error) {
	patch, err := d.preparePatch(ctx, id, patch)
	if err != nil {
		return reconcile.Result{}, err
	}
	res, err := d.reconciler.Request(ctx, id, patch)
	return d.patched(ctx, id, res, err)
}

// preparePatch rejects edits on a busy node and coerces property values.
func (d *Designer) preparePatch(ctx context.Context, id nodeid.ID, patch graph.Patch) (graph.Patch, error) {
	if d.reconciler.IsPending(id) {
		d.busy(ctx, id)
		return patch, fmt.Errorf("%w: %s", ErrNodeBusy, id)
	}
	if len(patch.Properties) == 0 {
		return patch, nil
	}

	n, ok := d.store.Node(ctx, id)
	if !ok {
		return patch, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	if def, ok := d.catalog.Module(n.ModuleID); ok {
		props, err := inspect.CoerceAll(def, patch.Properties)
		if err != nil {
			d.notify(ctx, Notice{Kind: NoticeInvalidProperty, Message: err.Error(), NodeID: id})
			return patch, err
		}
		patch.Properties = props
	}
	return patch, nil
}

// patched raises the notices that follow a reconciliation request.
func (d *Designer) patched(ctx context.Context, id nodeid.ID, res reconcile.Result, err error) (reconcile.Result, error) {
	if err != nil {
		if errors.Is(err, reconcile.ErrPendingConfirmation) {
			d.busy(ctx, id)
		}
		return res, err
	}
	if res.Outcome == reconcile.OutcomePrompted {
		p := res.Proposal
		d.notify(ctx, Notice{
			Kind:       NoticeConfirmSever,
			Message:    p.Prompt(),
			NodeID:     p.NodeID,
			ProposalID: p.ID,
			Affected:   p.Affected,
		})
	}
	return res, nil
}

// Confirm answers a confirm-sever notice with yes.
func (d *Designer) Confirm(ctx context.Context, proposalID string) (reconcile.Result, error) {
	return d.reconciler.Confirm(ctx, proposalID)
}

// Cancel answers a confirm-sever notice with no.
func (d *Designer) Cancel(ctx context.Context, proposalID string) error {
	return d.reconciler.Cancel(ctx, proposalID)
}

// PatchNodeWithGate edits a node and, when the edit would sever edges, asks
// gate instead of parking it.
func (d *Designer) PatchNodeWithGate(ctx context.Context, id nodeid.ID, patch graph.Patch, gate reconcile.Gate) (reconcile.Result, error) {
	patch, err := d.preparePatch(ctx, id, patch)
	if err != nil {
		return reconcile.Result{}, err
	}
	res, err := d.reconciler.RequestWithGate(ctx, id, patch, gate)
	return d.patched(ctx, id, res, err)
}

// Pending returns the proposal parked on a node.
func (d *Designer) Pending(id nodeid.ID) (*reconcile.Proposal, bool) {
	return d.reconciler.Pending(id)
}

// RemoveNode deletes a node and every edge touching it.
func (d *Designer) RemoveNode(ctx context.Context, id nodeid.ID) error {
	_, edges, err := d.store.RemoveNode(ctx, id)
	if err != nil {
		return err
	}
	d.reconciler.Discard(id)
	d.selection.Forget(id)
	ctxlog.FromContext(ctx).Info("Node removed.", "node_id", id, "edges_removed", len(edges))
	d.record(func(m *metrics.Metrics) { m.NodeRemoved() })
	return nil
}

func (d *Designer) busy(ctx context.Context, id nodeid.ID) {
	d.notify(ctx, Notice{
		Kind:    NoticeNodeBusy,
		Message: fmt.Sprintf("Node %s has a change waiting for confirmation.", id),
		NodeID:  id,
	})
}
