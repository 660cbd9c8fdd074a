package reconcile

import "context"

// Gate asks the user whether a parked edit may sever its edges.
type Gate interface {
	Confirm(ctx context.Context, p *Proposal) (bool, error)
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context, p *Proposal) (bool, error)

// Confirm implements Gate.
func (f GateFunc) Confirm(ctx context.Context, p *Proposal) (bool, error) {
	return f(ctx, p)
}

// Always is a gate that answers the same way every time.
func Always(answer bool) Gate {
	return GateFunc(func(context.Context, *Proposal) (bool, error) { return answer, nil })
}
