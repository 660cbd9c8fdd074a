// Package graph defines the workflow graph a user edits on the canvas: the
// placed nodes, the edges between their ports and the workflow status, along
// with the Store interface that owns them.
//
// # Why Graph Package Exists
//
// Every other engine component (the reconciler, the selection coordinator,
// the connection rules and the transport bridge) reads or changes the same
// graph. The Store is the single owner of that graph and the only place its
// structural invariants are enforced:
//
//   - Node ids are unique and never belong to the preview namespace.
//   - Every edge references two existing nodes.
//   - Every edge endpoint is a port that is currently displayable on its
//     node: an output on the source side, an input on the target side.
//   - A port that does not allow multiple connections carries at most one
//     edge, and the same pair of ports is never connected twice.
//
// A change that would break one of these rules is rejected with an error and
// leaves the graph untouched.
//
// # Atomic Updates
//
// Some edits have to change nodes and edges together. Switching a node to a
// variant that drops a connected port, for example, must remove the edges on
// that port and update the node in one step, or the graph would briefly hold
// dangling edges. Store.Atomically runs a function against a Tx; if the
// function fails, every change it made is rolled back and no listener is
// notified.
//
// # Status
//
// The store tracks whether the workflow has unsaved changes. Any successful
// structural change clears the saved flag; Reset and MarkSaved set it.
//
// # Lifecycle
//
//  1. Creation: the application creates one store per editing session.
//  2. Editing: the engine mutates it in response to user actions.
//  3. Reset: starting a new workflow empties it.
//
// See internal/inmemorygraph for the in-memory implementation.
package graph
