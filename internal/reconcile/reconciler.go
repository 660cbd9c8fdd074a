package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrPendingConfirmation = errors.New("node has a change awaiting confirmation")
	ErrUnknownProposal     = errors.New("unknown proposal")
)

// Outcome describes what happened to a requested edit.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomePrompted  Outcome = "prompted"
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeCancelled Outcome = "cancelled"
)

// Proposal is an edit parked until the user confirms severing edges.
type Proposal struct {
	ID        string
	NodeID    nodeid.ID
	Patch     graph.Patch
	Removed   []model.PortKey
	Affected  []graph.Edge
	CreatedAt time.Time
}

// Prompt is the confirmation question shown to the user.
func (p *Proposal) Prompt() string {
	if len(p.Affected) == 1 {
		return "This change will remove 1 connection. Continue?"
	}
	return fmt.Sprintf("This change will remove %d connections. Continue?", len(p.Affected))
}

// Result reports the outcome of an edit.
type Result struct {
	Outcome  Outcome
	Node     *graph.Node
	Proposal *Proposal
	Severed  []graph.Edge
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithObserver registers a callback invoked for every outcome.
func WithObserver(fn func(Outcome)) Option {
	return func(r *Reconciler) { r.observe = fn }
}

// WithClock overrides the time source used to stamp proposals.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// Reconciler tracks the per-node Stable/Pending state machine.
type Reconciler struct {
	store   graph.Store
	tracer  trace.Tracer
	now     func() time.Time
	observe func(Outcome)

	mu      sync.Mutex
	pending map[nodeid.ID]*Proposal
	byID    map[string]*Proposal
}

// New creates a reconciler over store.
func New(store graph.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:   store,
		tracer:  otel.Tracer("github.com/vk/pipecanvas/internal/reconcile"),
		now:     time.Now,
		observe: func(Outcome) {},
		pending: make(map[nodeid.ID]*Proposal),
		byID:    make(map[string]*Proposal),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Request applies patch to node id, or parks it as a proposal when it would
// sever edges.
func (r *Reconciler) Request(ctx context.Context, id nodeid.ID, patch graph.Patch) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.pending[id]; busy {
		return Result{}, fmt.Errorf("%w: %s", ErrPendingConfirmation, id)
	}

	if !patch.AffectsPorts() {
		n, err := r.store.UpdateNode(ctx, id, patch)
		if err != nil {
			return Result{}, err
		}
		r.observe(OutcomeApplied)
		return Result{Outcome: OutcomeApplied, Node: n}, nil
	}

	var (
		proposal *Proposal
		updated  *graph.Node
	)
	err := r.store.Atomically(ctx, func(tx graph.Tx) error {
		current, ok := tx.Node(ctx, id)
		if !ok {
			return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
		}
		removed, affected, err := impact(current, tx.EdgesOf(ctx, id), patch)
		if err != nil {
			return err
		}
		if len(affected) > 0 {
			proposal = &Proposal{
				ID:        uuid.NewString(),
				NodeID:    id,
				Patch:     patch,
				Removed:   removed,
				Affected:  affected,
				CreatedAt: r.now(),
			}
			return nil
		}
		updated, err = tx.UpdateNode(ctx, id, patch)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	if proposal != nil {
		r.pending[id] = proposal
		r.byID[proposal.ID] = proposal
		logger.Info("Port change awaits confirmation.", "node_id", id, "proposal_id", proposal.ID, "affected_edges", len(proposal.Affected))
		r.observe(OutcomePrompted)
		return Result{Outcome: OutcomePrompted, Proposal: proposal}, nil
	}

	r.observe(OutcomeApplied)
	return Result{Outcome: OutcomeApplied, Node: updated}, nil
}

// Confirm severs the edges a proposal affects and applies its patch, in one
// atomic write. The proposal is consumed whether or not the write succeeds.
func (r *Reconciler) Confirm(ctx context.Context, proposalID string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[proposalID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownProposal, proposalID)
	}
	r.drop(p)

	ctx, span := r.tracer.Start(ctx, "reconcile.Confirm", trace.WithAttributes(
		attribute.String("node.id", p.NodeID.String()),
		attribute.String("proposal.id", p.ID),
	))
	defer span.End()

	var (
		updated *graph.Node
		severed []graph.Edge
	)
	err := r.store.Atomically(ctx, func(tx graph.Tx) error {
		current, ok := tx.Node(ctx, p.NodeID)
		if !ok {
			return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, p.NodeID)
		}
		_, affected, err := impact(current, tx.EdgesOf(ctx, p.NodeID), p.Patch)
		if err != nil {
			return err
		}
		ids := make(map[string]struct{}, len(affected))
		for _, e := range affected {
			ids[e.ID] = struct{}{}
		}
		severed = tx.RemoveEdges(ctx, func(e graph.Edge) bool {
			_, hit := ids[e.ID]
			return hit
		})
		updated, err = tx.UpdateNode(ctx, p.NodeID, p.Patch)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("edges.severed", len(severed)))

	ctxlog.FromContext(ctx).Info("Port change confirmed.", "node_id", p.NodeID, "severed_edges", len(severed))
	r.observe(OutcomeConfirmed)
	return Result{Outcome: OutcomeConfirmed, Node: updated, Severed: severed}, nil
}

// Cancel discards a proposal. The graph is not touched.
func (r *Reconciler) Cancel(ctx context.Context, proposalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[proposalID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProposal, proposalID)
	}
	r.drop(p)
	ctxlog.FromContext(ctx).Info("Port change cancelled.", "node_id", p.NodeID, "proposal_id", p.ID)
	r.observe(OutcomeCancelled)
	return nil
}

// RequestWithGate runs Request and, when the edit is parked, asks gate
// whether to proceed. A refusal, a gate error or a cancelled context all
// cancel the proposal.
func (r *Reconciler) RequestWithGate(ctx context.Context, id nodeid.ID, patch graph.Patch, gate Gate) (Result, error) {
	res, err := r.Request(ctx, id, patch)
	if err != nil || res.Outcome != OutcomePrompted {
		return res, err
	}

	ok, gateErr := gate.Confirm(ctx, res.Proposal)
	if gateErr == nil {
		gateErr = ctx.Err()
	}
	if gateErr != nil || !ok {
		if err := r.Cancel(ctx, res.Proposal.ID); err != nil && !errors.Is(err, ErrUnknownProposal) {
			return Result{}, err
		}
		return Result{Outcome: OutcomeCancelled, Proposal: res.Proposal}, gateErr
	}
	return r.Confirm(ctx, res.Proposal.ID)
}

// Pending returns the proposal parked on node id.
func (r *Reconciler) Pending(id nodeid.ID) (*Proposal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[id]
	return p, ok
}

// IsPending reports whether node id has a parked proposal.
func (r *Reconciler) IsPending(id nodeid.ID) bool {
	_, ok := r.Pending(id)
	return ok
}

// Discard drops the proposal parked on node id, if any. It is used when the
// node itself goes away.
func (r *Reconciler) Discard(id nodeid.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pending[id]; ok {
		r.drop(p)
	}
}

// Reset drops every proposal.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = make(map[nodeid.ID]*Proposal)
	r.byID = make(map[string]*Proposal)
}

func (r *Reconciler) drop(p *Proposal) {
	delete(r.pending, p.NodeID)
	delete(r.byID, p.ID)
}
