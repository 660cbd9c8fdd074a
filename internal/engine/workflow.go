package engine

import (
	"context"
	"fmt"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/inspect"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/vk/pipecanvas/internal/selection"
)

// SelectNode selects a placed node. A bad reference keeps the previous
// selection and raises an invalid-selection notice.
func (d *Designer) SelectNode(ctx context.Context, id nodeid.ID) error {
	if err := d.selection.SelectNode(ctx, id); err != nil {
		d.notify(ctx, Notice{Kind: NoticeInvalidSelection, Message: err.Error(), NodeID: id})
		return err
	}
	return nil
}

// PreviewModule selects a preview of a catalog module.
func (d *Designer) PreviewModule(ctx context.Context, moduleID string) error {
	if err := d.selection.PreviewModule(ctx, moduleID); err != nil {
		d.notify(ctx, Notice{Kind: NoticeInvalidSelection, Message: err.Error(), ModuleID: moduleID})
		return err
	}
	return nil
}

// ClearSelection empties the selection.
func (d *Designer) ClearSelection() {
	d.selection.Clear()
}

// Selection returns the current selection.
func (d *Designer) Selection() selection.Selection {
	return d.selection.Current()
}

// Inspect describes the inspector for the current selection. The second
// result is false when nothing is selected.
func (d *Designer) Inspect(ctx context.Context) (inspect.Sheet, bool) {
	_, n := d.selection.View(ctx)
	if n == nil {
		return inspect.Sheet{}, false
	}
	def, _ := d.catalog.Module(n.ModuleID)
	return d.properties.Build(n, def), true
}

// NewWorkflow discards the current workflow. Ids restart at node-1 and
// variant lists are resolved afresh.
func (d *Designer) NewWorkflow(ctx context.Context) {
	d.tracker.Cancel()
	d.reconciler.Reset()
	d.resolver.Reset()
	d.selection.Clear()
	d.ids.Reset()
	d.store.Reset(ctx)
	ctxlog.FromContext(ctx).Info("New workflow started.")
}

// Save marks the workflow saved. Persisting it is up to the caller.
func (d *Designer) Save(ctx context.Context) graph.Status {
	d.store.MarkSaved(ctx)
	st := d.store.Status(ctx)
	ctxlog.FromContext(ctx).Info("Workflow marked saved.", "nodes", st.NodeCount, "edges", st.EdgeCount)
	return st
}

// Describe returns a one-line status summary.
func Describe(st graph.Status) string {
	state := "unsaved"
	if st.Saved {
		state = "saved"
	}
	return fmt.Sprintf("%d nodes, %d edges, %s", st.NodeCount, st.EdgeCount, state)
}
