package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/engine"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/placement"
	"github.com/vk/pipecanvas/internal/selection"
)

// ErrUnknownEvent is returned for inbound events without a handler.
var ErrUnknownEvent = errors.New("unknown event")

// Emitter sends one outbound event.
type Emitter interface {
	Emit(event string, payload any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(event string, payload any)

// Emit implements Emitter.
func (f EmitterFunc) Emit(event string, payload any) { f(event, payload) }

type handlerFunc func(ctx context.Context, reply Emitter, raw []byte) error

// Bridge dispatches renderer events to a Designer.
type Bridge struct {
	d        *engine.Designer
	handlers map[string]handlerFunc
}

// New creates a bridge for d.
func New(d *engine.Designer) *Bridge {
	b := &Bridge{d: d}
	b.handlers = map[string]handlerFunc{
		"pointer:down":     b.pointerDown,
		"pointer:move":     b.pointerMove,
		"pointer:up":       b.pointerUp,
		"pointer:cancel":   b.pointerCancel,
		"surface":          b.setSurface,
		"edge:create":      b.edgeCreate,
		"edge:delete":      b.edgeDelete,
		"node:patch":       b.nodePatch,
		"node:delete":      b.nodeDelete,
		"node:select":      b.nodeSelect,
		"module:preview":   b.modulePreview,
		"selection:clear":  b.selectionClear,
		"proposal:confirm": b.proposalConfirm,
		"proposal:cancel":  b.proposalCancel,
		"workflow:new":     b.workflowNew,
		"workflow:save":    b.workflowSave,
		"catalog:list":     b.catalogList,
		"graph:get":        b.graphGet,
	}
	return b
}

// Events lists the inbound event names, sorted.
func (b *Bridge) Events() []string {
	out := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Handle dispatches one inbound event. payload is the first socket.io
// argument, already decoded from JSON, or nil.
func (b *Bridge) Handle(ctx context.Context, reply Emitter, event string, payload any) error {
	h, ok := b.handlers[event]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	ctxlog.FromContext(ctx).Debug("Handling renderer event.", "event", event)
	return h(ctx, reply, raw)
}

// Broadcast forwards the designer's graph, selection and notice events to
// out until cancel is called.
func (b *Bridge) Broadcast(ctx context.Context, out Emitter) (cancel func()) {
	return b.d.Subscribe(engine.Hooks{
		Graph: func([]graph.Change) {
			out.Emit(EventGraph, viewGraph(b.d.Snapshot(ctx)))
			if b.d.Selection().Kind() == selection.KindPlaced {
				out.Emit(EventSelection, b.selectionView(ctx))
			}
		},
		Selection: func(selection.Selection) {
			out.Emit(EventSelection, b.selectionView(ctx))
		},
		Notice: func(n engine.Notice) {
			out.Emit(EventNotice, n)
		},
	})
}

// Welcome sends a newly connected client the catalog, graph and selection.
func (b *Bridge) Welcome(ctx context.Context, reply Emitter) {
	reply.Emit(EventCatalog, viewCatalog(b.d.Categories(), b.d.Modules()))
	reply.Emit(EventGraph, viewGraph(b.d.Snapshot(ctx)))
	reply.Emit(EventSelection, b.selectionView(ctx))
}

func (b *Bridge) selectionView(ctx context.Context) selectionView {
	sheet, ok := b.d.Inspect(ctx)
	if !ok {
		return selectionView{Kind: string(selection.KindEmpty)}
	}
	kind := selection.KindPlaced
	if sheet.Preview {
		kind = selection.KindPreview
	}
	return selectionView{Kind: string(kind), Sheet: &sheet}
}

func decode[T any](raw []byte) (T, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("malformed payload: %w", err)
	}
	return v, nil
}

func (b *Bridge) pointerDown(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[pointerMsg](raw)
	if err != nil {
		return err
	}
	return b.d.PointerDown(ctx, m.ModuleID, placement.Point{X: m.X, Y: m.Y})
}

func (b *Bridge) pointerMove(_ context.Context, _ Emitter, raw []byte) error {
	m, err := decode[pointerMsg](raw)
	if err != nil {
		return err
	}
	b.d.PointerMove(placement.Point{X: m.X, Y: m.Y})
	return nil
}

func (b *Bridge) pointerUp(ctx context.Context, reply Emitter, raw []byte) error {
	m, err := decode[pointerMsg](raw)
	if err != nil {
		return err
	}
	res, err := b.d.PointerUp(ctx, placement.Point{X: m.X, Y: m.Y})
	if err != nil {
		return err
	}
	if res.Action == placement.Place && res.Node != nil {
		reply.Emit(EventPlaced, viewNode(res.Node))
	}
	return nil
}

func (b *Bridge) pointerCancel(context.Context, Emitter, []byte) error {
	b.d.PointerCancel()
	return nil
}

func (b *Bridge) setSurface(_ context.Context, _ Emitter, raw []byte) error {
	s, err := decode[placement.Surface](raw)
	if err != nil {
		return err
	}
	b.d.SetSurface(s)
	return nil
}

func (b *Bridge) edgeCreate(ctx context.Context, _ Emitter, raw []byte) error {
	e, err := decode[graph.Edge](raw)
	if err != nil {
		return err
	}
	_, err = b.d.Connect(ctx, e)
	return err
}

func (b *Bridge) edgeDelete(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[idMsg](raw)
	if err != nil {
		return err
	}
	return b.d.Disconnect(ctx, m.ID)
}

func (b *Bridge) nodePatch(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[patchMsg](raw)
	if err != nil {
		return err
	}
	_, err = b.d.PatchNode(ctx, m.NodeID, m.patch())
	return err
}

func (b *Bridge) nodeDelete(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[nodeMsg](raw)
	if err != nil {
		return err
	}
	return b.d.RemoveNode(ctx, m.NodeID)
}

func (b *Bridge) nodeSelect(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[nodeMsg](raw)
	if err != nil {
		return err
	}
	return b.d.SelectNode(ctx, m.NodeID)
}

func (b *Bridge) modulePreview(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[moduleMsg](raw)
	if err != nil {
		return err
	}
	return b.d.PreviewModule(ctx, m.ModuleID)
}

func (b *Bridge) selectionClear(context.Context, Emitter, []byte) error {
	b.d.ClearSelection()
	return nil
}

func (b *Bridge) proposalConfirm(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[idMsg](raw)
	if err != nil {
		return err
	}
	_, err = b.d.Confirm(ctx, m.ID)
	return err
}

func (b *Bridge) proposalCancel(ctx context.Context, _ Emitter, raw []byte) error {
	m, err := decode[idMsg](raw)
	if err != nil {
		return err
	}
	return b.d.Cancel(ctx, m.ID)
}

func (b *Bridge) workflowNew(ctx context.Context, _ Emitter, _ []byte) error {
	b.d.NewWorkflow(ctx)
	return nil
}

func (b *Bridge) workflowSave(ctx context.Context, _ Emitter, _ []byte) error {
	b.d.Save(ctx)
	return nil
}

func (b *Bridge) catalogList(_ context.Context, reply Emitter, _ []byte) error {
	reply.Emit(EventCatalog, viewCatalog(b.d.Categories(), b.d.Modules()))
	return nil
}

func (b *Bridge) graphGet(ctx context.Context, reply Emitter, _ []byte) error {
	reply.Emit(EventGraph, viewGraph(b.d.Snapshot(ctx)))
	return nil
}
