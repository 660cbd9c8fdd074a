// Package bridge connects renderer clients to a Designer over socket.io.
//
// Inbound events are decoded from their JSON payload and dispatched through
// a table of handlers; outbound events carry the graph, the selection sheet,
// notices and the catalog. All clients share one workflow.
//
// Inbound:  pointer:down pointer:move pointer:up pointer:cancel surface
//           edge:create edge:delete node:patch node:delete node:select
//           module:preview selection:clear proposal:confirm proposal:cancel
//           workflow:new workflow:save catalog:list graph:get
// Outbound: graph selection notice catalog placed
package bridge
