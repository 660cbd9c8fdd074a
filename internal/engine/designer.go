package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vk/pipecanvas/internal/connect"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/inmemorygraph"
	"github.com/vk/pipecanvas/internal/inspect"
	"github.com/vk/pipecanvas/internal/metrics"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/vk/pipecanvas/internal/placement"
	"github.com/vk/pipecanvas/internal/reconcile"
	"github.com/vk/pipecanvas/internal/registry"
	"github.com/vk/pipecanvas/internal/selection"
)

var (
	ErrUnknownModule = errors.New("unknown module")
	ErrNodeBusy      = errors.New("node has a change awaiting confirmation")
)

// Catalog is the module catalog the designer reads from.
type Catalog interface {
	registry.VariantSource
	Module(id string) (*model.ModuleDefinition, bool)
	Modules() []*model.ModuleDefinition
	Categories() []model.Category
}

// Options configures a Designer. Only Catalog is required.
type Options struct {
	Catalog Catalog

	// Store defaults to an in-memory store.
	Store graph.Store

	// Compat defaults to connect.Strict.
	Compat connect.Compatibility

	// Properties defaults to inspect.DefaultTable.
	Properties inspect.Table

	// NodeSize and Thresholds default to placement.DefaultNodeSize and
	// placement.DefaultThresholds.
	NodeSize   placement.Size
	Thresholds placement.Thresholds

	// Clock defaults to time.Now.
	Clock func() time.Time

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Hooks receive the designer's outbound events. Nil hooks are skipped.
type Hooks struct {
	Graph     func(changes []graph.Change)
	Selection func(sel selection.Selection)
	Notice    func(n Notice)
}

// Designer is the editor engine for one workflow.
type Designer struct {
	catalog    Catalog
	store      graph.Store
	resolver   *registry.Resolver
	ids        *nodeid.Generator
	validator  *connect.Validator
	reconciler *reconcile.Reconciler
	selection  *selection.Coordinator
	tracker    *placement.Tracker
	properties inspect.Table
	metrics    *metrics.Metrics

	surfaceMu sync.RWMutex
	surface   placement.Surface

	hooksMu sync.Mutex
	hooks   map[int]Hooks
	nextID  int
}

// New creates a designer.
func New(opts Options) (*Designer, error) {
	if opts.Catalog == nil {
		return nil, errors.New("engine: a catalog is required")
	}
	if opts.Store == nil {
		opts.Store = inmemorygraph.New()
	}
	if opts.Properties == nil {
		opts.Properties = inspect.DefaultTable()
	}
	if opts.NodeSize == (placement.Size{}) {
		opts.NodeSize = placement.DefaultNodeSize
	}
	if opts.Thresholds == (placement.Thresholds{}) {
		opts.Thresholds = placement.DefaultThresholds
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	d := &Designer{
		catalog:    opts.Catalog,
		store:      opts.Store,
		ids:        nodeid.NewGenerator(),
		validator:  connect.NewValidator(opts.Compat),
		properties: opts.Properties,
		metrics:    opts.Metrics,
		hooks:      make(map[int]Hooks),
	}
	d.resolver = registry.NewResolver(opts.Catalog, registry.WithFailureHook(d.resolutionFailed))
	d.reconciler = reconcile.New(opts.Store,
		reconcile.WithClock(opts.Clock),
		reconcile.WithObserver(func(o reconcile.Outcome) {
			d.record(func(m *metrics.Metrics) { m.Reconciliation(string(o)) })
		}),
	)
	d.selection = selection.NewCoordinator(opts.Store, opts.Catalog, d.resolver)
	d.tracker = placement.NewTracker(opts.Thresholds,
		placement.WithClock(opts.Clock),
		placement.WithNodeSize(opts.NodeSize),
	)

	opts.Store.Subscribe(d.graphChanged)
	d.selection.Subscribe(d.selectionChanged)
	return d, nil
}

// Subscribe registers hooks for outbound events.
func (d *Designer) Subscribe(h Hooks) (cancel func()) {
	d.hooksMu.Lock()
	defer d.hooksMu.Unlock()
	id := d.nextID
	d.nextID++
	d.hooks[id] = h
	return func() {
		d.hooksMu.Lock()
		defer d.hooksMu.Unlock()
		delete(d.hooks, id)
	}
}

// Modules lists the catalog in declaration order.
func (d *Designer) Modules() []*model.ModuleDefinition { return d.catalog.Modules() }

// Categories lists the catalog categories.
func (d *Designer) Categories() []model.Category { return d.catalog.Categories() }

// Snapshot returns the current nodes, edges and status.
func (d *Designer) Snapshot(ctx context.Context) graph.Snapshot { return d.store.Snapshot(ctx) }

// Status returns the workflow status.
func (d *Designer) Status(ctx context.Context) graph.Status { return d.store.Status(ctx) }

// NextNodeID returns the counter value the next placed node will use.
func (d *Designer) NextNodeID() uint64 { return d.ids.Peek() }

func (d *Designer) subscribers() []Hooks {
	d.hooksMu.Lock()
	defer d.hooksMu.Unlock()
	out := make([]Hooks, 0, len(d.hooks))
	for i := 0; i < d.nextID; i++ {
		if h, ok := d.hooks[i]; ok {
			out = append(out, h)
		}
	}
	return out
}

func (d *Designer) graphChanged(changes []graph.Change) {
	st := d.store.Status(context.Background())
	d.record(func(m *metrics.Metrics) { m.GraphSize(st.NodeCount, st.EdgeCount) })
	for _, h := range d.subscribers() {
		if h.Graph != nil {
			h.Graph(changes)
		}
	}
}

func (d *Designer) selectionChanged(sel selection.Selection) {
	for _, h := range d.subscribers() {
		if h.Selection != nil {
			h.Selection(sel)
		}
	}
}

func (d *Designer) notify(ctx context.Context, n Notice) {
	ctxlog.FromContext(ctx).Info("Notice raised.", "kind", n.Kind, "message", n.Message)
	for _, h := range d.subscribers() {
		if h.Notice != nil {
			h.Notice(n)
		}
	}
}

func (d *Designer) resolutionFailed(moduleID string, err error) {
	d.record(func(m *metrics.Metrics) { m.ResolutionFailed(moduleID) })
	d.notify(context.Background(), Notice{
		Kind:     NoticeResolutionFailed,
		Message:  "Could not load the port layouts of " + moduleID + "; it will be placed without ports.",
		ModuleID: moduleID,
	})
}

func (d *Designer) record(fn func(m *metrics.Metrics)) {
	if d.metrics != nil {
		fn(d.metrics)
	}
}
