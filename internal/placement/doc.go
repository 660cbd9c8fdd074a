// Package placement maps pointer positions on the renderer's surface to
// canvas coordinates and tells clicks from drags.
//
// The renderer reports pointer events in screen space. A node dropped under
// the pointer has to land under the pointer whatever pan and zoom the canvas
// currently shows, so Surface applies the viewport transform, or a raw
// container offset when the renderer has not reported a viewport yet.
// Tracker follows one press on a catalog entry from pointer-down to release
// and decides whether it was a click (preview) or a drag (place).
package placement
