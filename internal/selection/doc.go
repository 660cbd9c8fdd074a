// Package selection tracks what the inspector is looking at: nothing, a
// placed node, or a preview of a catalog module that has not been placed.
//
// A placed selection holds only the node id and is resolved against the
// store on every read, so edits made after selecting show up immediately. A
// preview holds a synthesized node record under a reserved id namespace; it
// is never inserted into the graph.
package selection
