package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/inmemorygraph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

var conditionalDef = &model.ModuleDefinition{ID: "conditional", Name: "Conditional", Kind: model.KindProcessor}

var conditionalVariants = []model.VariantDefinition{
	{ID: "default", Ports: []model.PortDefinition{
		{Name: "value", Direction: model.Input, Type: model.Number},
		{Name: "true_result", Direction: model.Output, Type: model.Any, AllowMultiple: true},
		{Name: "false_result", Direction: model.Output, Type: model.Any, AllowMultiple: true},
	}},
	{ID: "string_compare", Ports: []model.PortDefinition{
		{Name: "string1", Direction: model.Input, Type: model.String},
		{Name: "match_output", Direction: model.Output, Type: model.Boolean, AllowMultiple: true},
		{Name: "detail_output", Direction: model.Output, Type: model.String, Optional: true, AllowMultiple: true},
	}},
}

func ptr[T any](v T) *T { return &v }

func link(src nodeid.ID, out string, dst nodeid.ID, in string) graph.Edge {
	return graph.Edge{
		Source: graph.PortRef{Node: src, Port: out},
		Target: graph.PortRef{Node: dst, Port: in},
	}
}

// fixture places node-1 and node-2 and wires node-1.true_result to node-2.value.
func fixture(t *testing.T) (graph.Store, graph.Edge) {
	t.Helper()
	ctx := context.Background()
	s := inmemorygraph.New()
	for i := uint64(1); i <= 2; i++ {
		require.NoError(t, s.AddNode(ctx, graph.NewNode(nodeid.New(i), conditionalDef, conditionalVariants, graph.Position{})))
	}
	e, err := s.AddEdge(ctx, link("node-1", "true_result", "node-2", "value"))
	require.NoError(t, err)
	return s, e
}

func TestRemovedPorts(t *testing.T) {
	before := conditionalVariants[0].Ports
	after := conditionalVariants[1].Ports

	removed := RemovedPorts(before, after)
	assert.Equal(t, []model.PortKey{
		{Direction: model.Input, Name: "value"},
		{Direction: model.Output, Name: "true_result"},
		{Direction: model.Output, Name: "false_result"},
	}, removed)

	assert.Empty(t, RemovedPorts(before, before))
	assert.Empty(t, RemovedPorts(nil, after))
}

func TestAffectedEdges(t *testing.T) {
	edges := []graph.Edge{
		{ID: "a", Source: graph.PortRef{Node: "node-1", Port: "out"}, Target: graph.PortRef{Node: "node-2", Port: "in"}},
		{ID: "b", Source: graph.PortRef{Node: "node-2", Port: "out"}, Target: graph.PortRef{Node: "node-1", Port: "in"}},
		{ID: "c", Source: graph.PortRef{Node: "node-3", Port: "out"}, Target: graph.PortRef{Node: "node-1", Port: "other"}},
	}
	testCases := []struct {
		name    string
		removed []model.PortKey
		want    []string
	}{
		{name: "nothing removed", removed: nil, want: nil},
		{name: "output side", removed: []model.PortKey{{Direction: model.Output, Name: "out"}}, want: []string{"a"}},
		{name: "input side", removed: []model.PortKey{{Direction: model.Input, Name: "in"}}, want: []string{"b"}},
		{name: "both", removed: []model.PortKey{{Direction: model.Input, Name: "in"}, {Direction: model.Output, Name: "out"}}, want: []string{"a", "b"}},
		{name: "name on wrong side", removed: []model.PortKey{{Direction: model.Input, Name: "out"}}, want: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AffectedEdges(edges, "node-1", tc.removed)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, graph.EdgeIDs(got))
		})
	}
}

func TestReconciler_AppliesWhenNothingIsSevered(t *testing.T) {
	ctx := context.Background()
	s, e := fixture(t)
	var outcomes []Outcome
	r := New(s, WithObserver(func(o Outcome) { outcomes = append(outcomes, o) }))

	// node-3 has no edges, so a variant switch goes straight through.
	require.NoError(t, s.AddNode(ctx, graph.NewNode(nodeid.New(3), conditionalDef, conditionalVariants, graph.Position{})))
	res, err := r.Request(ctx, "node-3", graph.Patch{VariantID: ptr("string_compare")})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, res.Outcome)
	require.NotNil(t, res.Node)
	assert.Equal(t, "string_compare", res.Node.VariantID)

	res, err = r.Request(ctx, "node-1", graph.Patch{Properties: map[string]cty.Value{"threshold": cty.NumberIntVal(3)}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, res.Outcome)
	assert.True(t, res.Node.Properties["threshold"].RawEquals(cty.NumberIntVal(3)))

	assert.Len(t, s.Edges(ctx), 1)
	assert.Equal(t, e.ID, s.Edges(ctx)[0].ID)
	assert.Equal(t, []Outcome{OutcomeApplied, OutcomeApplied}, outcomes)
}

func TestReconciler_ConfirmSeversAndApplies(t *testing.T) {
	ctx := context.Background()
	s, e := fixture(t)
	var outcomes []Outcome
	r := New(s, WithObserver(func(o Outcome) { outcomes = append(outcomes, o) }))

	res, err := r.Request(ctx, "node-1", graph.Patch{VariantID: ptr("string_compare")})
	require.NoError(t, err)
	require.Equal(t, OutcomePrompted, res.Outcome)
	require.NotNil(t, res.Proposal)
	assert.Equal(t, []string{e.ID}, graph.EdgeIDs(res.Proposal.Affected))
	assert.Equal(t, "This change will remove 1 connection. Continue?", res.Proposal.Prompt())

	// Nothing changed yet.
	n, _ := s.Node(ctx, "node-1")
	assert.Equal(t, "default", n.VariantID)
	assert.Len(t, s.Edges(ctx), 1)
	assert.True(t, r.IsPending("node-1"))

	_, err = r.Request(ctx, "node-1", graph.Patch{Label: ptr("busy")})
	assert.ErrorIs(t, err, ErrPendingConfirmation)

	s.MarkSaved(ctx)
	done, err := r.Confirm(ctx, res.Proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, done.Outcome)
	assert.Equal(t, []string{e.ID}, graph.EdgeIDs(done.Severed))
	assert.Equal(t, "string_compare", done.Node.VariantID)
	assert.Empty(t, s.Edges(ctx))
	assert.False(t, s.Status(ctx).Saved)
	assert.False(t, r.IsPending("node-1"))

	_, err = r.Confirm(ctx, res.Proposal.ID)
	assert.ErrorIs(t, err, ErrUnknownProposal)
	assert.Equal(t, []Outcome{OutcomePrompted, OutcomeConfirmed}, outcomes)
}

func TestReconciler_CancelLeavesGraphUntouched(t *testing.T) {
	ctx := context.Background()
	s, _ := fixture(t)
	r := New(s)
	s.MarkSaved(ctx)
	before := s.Snapshot(ctx)

	res, err := r.Request(ctx, "node-2", graph.Patch{VariantID: ptr("string_compare")})
	require.NoError(t, err)
	require.Equal(t, OutcomePrompted, res.Outcome)

	require.NoError(t, r.Cancel(ctx, res.Proposal.ID))
	assert.Equal(t, before, s.Snapshot(ctx))
	assert.False(t, r.IsPending("node-2"))
	assert.ErrorIs(t, r.Cancel(ctx, res.Proposal.ID), ErrUnknownProposal)
}

func TestReconciler_ConfirmRecomputesAffected(t *testing.T) {
	ctx := context.Background()
	s, first := fixture(t)
	require.NoError(t, s.AddNode(ctx, graph.NewNode(nodeid.New(3), conditionalDef, conditionalVariants, graph.Position{})))
	second, err := s.AddEdge(ctx, link("node-1", "false_result", "node-3", "value"))
	require.NoError(t, err)
	r := New(s)

	res, err := r.Request(ctx, "node-1", graph.Patch{VariantID: ptr("string_compare")})
	require.NoError(t, err)
	require.Len(t, res.Proposal.Affected, 2)
	assert.Equal(t, "This change will remove 2 connections. Continue?", res.Proposal.Prompt())

	// The user deletes one of the edges while the prompt is open.
	s.RemoveEdges(ctx, func(e graph.Edge) bool { return e.ID == first.ID })

	done, err := r.Confirm(ctx, res.Proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, graph.EdgeIDs(done.Severed))
	assert.Empty(t, s.Edges(ctx))
}

func TestReconciler_OptionalPortToggle(t *testing.T) {
	ctx := context.Background()
	s := inmemorygraph.New()
	require.NoError(t, s.AddNode(ctx, graph.NewNode(nodeid.New(1), conditionalDef, conditionalVariants, graph.Position{})))
	require.NoError(t, s.AddNode(ctx, graph.NewNode(nodeid.New(2), conditionalDef, conditionalVariants, graph.Position{})))
	r := New(s)

	res, err := r.Request(ctx, "node-1", graph.Patch{
		VariantID:   ptr("string_compare"),
		ActivePorts: map[string]bool{"detail_output": true},
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, res.Outcome)
	_, err = s.AddEdge(ctx, link("node-1", "detail_output", "node-2", "value"))
	require.NoError(t, err)

	res, err = r.Request(ctx, "node-1", graph.Patch{ActivePorts: map[string]bool{"detail_output": false}})
	require.NoError(t, err)
	require.Equal(t, OutcomePrompted, res.Outcome)
	assert.Equal(t, []model.PortKey{{Direction: model.Output, Name: "detail_output"}}, res.Proposal.Removed)

	done, err := r.Confirm(ctx, res.Proposal.ID)
	require.NoError(t, err)
	assert.False(t, done.Node.ActivePorts["detail_output"])
	assert.Empty(t, s.Edges(ctx))
}

func TestReconciler_Errors(t *testing.T) {
	ctx := context.Background()
	s, _ := fixture(t)
	r := New(s)

	_, err := r.Request(ctx, "node-9", graph.Patch{VariantID: ptr("string_compare")})
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)

	_, err = r.Request(ctx, "node-1", graph.Patch{VariantID: ptr("missing")})
	assert.ErrorIs(t, err, graph.ErrUnknownVariant)

	res, err := r.Request(ctx, "node-1", graph.Patch{VariantID: ptr("string_compare")})
	require.NoError(t, err)
	_, _, err = s.RemoveNode(ctx, "node-1")
	require.NoError(t, err)

	_, err = r.Confirm(ctx, res.Proposal.ID)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	assert.False(t, r.IsPending("node-1"))
}

func TestReconciler_DiscardAndReset(t *testing.T) {
	ctx := context.Background()
	s, _ := fixture(t)
	r := New(s)

	a, err := r.Request(ctx, "node-1", graph.Patch{VariantID: ptr("string_compare")})
	require.NoError(t, err)
	b, err := r.Request(ctx, "node-2", graph.Patch{VariantID: ptr("string_compare")})
	require.NoError(t, err)

	r.Discard("node-1")
	assert.False(t, r.IsPending("node-1"))
	assert.ErrorIs(t, r.Cancel(ctx, a.Proposal.ID), ErrUnknownProposal)

	p, ok := r.Pending("node-2")
	require.True(t, ok)
	assert.Equal(t, b.Proposal.ID, p.ID)

	r.Reset()
	assert.False(t, r.IsPending("node-2"))
}

func TestReconciler_RequestWithGate(t *testing.T) {
	gateErr := errors.New("dialog closed")
	testCases := []struct {
		name        string
		gate        Gate
		wantOutcome Outcome
		wantErr     error
		wantEdges   int
	}{
		{name: "accepted", gate: Always(true), wantOutcome: OutcomeConfirmed, wantEdges: 0},
		{name: "declined", gate: Always(false), wantOutcome: OutcomeCancelled, wantEdges: 1},
		{
			name: "gate error",
			gate: GateFunc(func(context.Context, *Proposal) (bool, error) {
				return true, gateErr
			}),
			wantOutcome: OutcomeCancelled,
			wantErr:     gateErr,
			wantEdges:   1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			s, _ := fixture(t)
			r := New(s)

			res, err := r.RequestWithGate(ctx, "node-1", graph.Patch{VariantID: ptr("string_compare")}, tc.gate)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.Len(t, s.Edges(ctx), tc.wantEdges)
			assert.False(t, r.IsPending("node-1"))
		})
	}
}
