// Package reconcile applies node edits that can change a node's port layout.
//
// Switching variants or toggling optional ports may hide ports that carry
// edges. Such an edit is never applied silently: the reconciler computes the
// edges it would sever and, if there are any, parks the edit as a Proposal
// and moves the node into a pending state. The caller shows the user a
// prompt; Confirm then removes the affected edges and applies the edit in one
// atomic store write, while Cancel drops the proposal and leaves the graph
// untouched.
//
// While a node has a pending proposal further edits to it are rejected with
// ErrPendingConfirmation. At confirm time the affected edges are recomputed
// against the graph as it is then, so edges removed in the meantime are not
// counted twice and the patch lands on the node's latest state.
package reconcile
