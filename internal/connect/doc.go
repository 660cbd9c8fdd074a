// Package connect decides whether two ports may be joined by an edge.
//
// Type compatibility is deliberately permissive in one direction only: the
// wildcard type "any" matches everything, and otherwise the two type tags
// must be equal. A Table can widen the rule with extra pairs (for example
// letting integers flow into floats) without ever narrowing it.
//
// The structural rules (both ports exist, are displayable, face the right
// way and have room for another edge) belong to the graph store; this
// package only answers the type question and produces the rejection shown to
// the user.
package connect
