// Package nodeid defines identifiers for nodes on the canvas.
//
// Placed nodes get ids of the form "node-N", issued by a Generator from a
// counter that starts at 1 and only moves forward until the workflow is
// reset. Preview records, which describe a palette entry before it is
// placed, live in a separate "preview:" namespace and can never be mistaken
// for a placed node.
package nodeid
