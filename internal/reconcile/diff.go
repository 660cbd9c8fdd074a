package reconcile

import (
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
)

// RemovedPorts returns the ports displayable before but not after, keyed by
// direction and name, in the order they appeared before.
func RemovedPorts(before, after []model.PortDefinition) []model.PortKey {
	kept := make(map[model.PortKey]struct{}, len(after))
	for _, p := range after {
		kept[p.Key()] = struct{}{}
	}
	var removed []model.PortKey
	for _, p := range before {
		if _, ok := kept[p.Key()]; !ok {
			removed = append(removed, p.Key())
		}
	}
	return removed
}

// AffectedEdges returns the edges that end on one of the removed ports of
// node id.
func AffectedEdges(edges []graph.Edge, id nodeid.ID, removed []model.PortKey) []graph.Edge {
	if len(removed) == 0 {
		return nil
	}
	var out []graph.Edge
	for _, e := range edges {
		for _, key := range removed {
			if e.TouchesPort(id, key) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// impact computes what applying patch to n would sever.
func impact(n *graph.Node, edges []graph.Edge, patch graph.Patch) ([]model.PortKey, []graph.Edge, error) {
	updated, err := patch.Apply(n)
	if err != nil {
		return nil, nil, err
	}
	removed := RemovedPorts(n.DisplayablePorts(), updated.DisplayablePorts())
	return removed, AffectedEdges(edges, n.ID, removed), nil
}
