// Package engine is the boundary of the workflow editor. A Designer composes
// the catalog, variant resolution, the graph store, the connection validator,
// the port reconciler, placement and selection behind one API that a
// renderer drives.
//
// Every operation returns an error rather than panicking, and every failure
// the user should hear about is also published as a Notice. Nothing here is
// fatal: a failed operation leaves the graph as it was.
//
// Node creation is two-phase. The module's variants are resolved first,
// without holding any lock; the id is issued and the node inserted in a
// single store write afterwards, so readers never see a half-built node.
package engine
