// Package inmemorygraph provides a thread-safe, in-memory implementation of
// the graph.Store interface. It suits a single editing session, where the
// whole workflow fits comfortably in memory and persistence is handled
// elsewhere.
package inmemorygraph
