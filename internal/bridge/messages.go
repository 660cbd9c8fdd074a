package bridge

import (
	"github.com/vk/pipecanvas/internal/engine"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/inspect"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Outbound event names.
const (
	EventGraph     = "graph"
	EventSelection = "selection"
	EventNotice    = "notice"
	EventCatalog   = "catalog"
	EventPlaced    = "placed"
)

type pointerMsg struct {
	ModuleID string  `json:"module_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type idMsg struct {
	ID string `json:"id"`
}

type nodeMsg struct {
	NodeID nodeid.ID `json:"node_id"`
}

type moduleMsg struct {
	ModuleID string `json:"module_id"`
}

type patchMsg struct {
	NodeID      nodeid.ID                          `json:"node_id"`
	Label       *string                            `json:"label,omitempty"`
	Description *string                            `json:"description,omitempty"`
	Position    *graph.Position                    `json:"position,omitempty"`
	Properties  map[string]ctyjson.SimpleJSONValue `json:"properties,omitempty"`
	VariantID   *string                            `json:"variant_id,omitempty"`
	ActivePorts map[string]bool                    `json:"active_ports,omitempty"`
}

func (m patchMsg) patch() graph.Patch {
	p := graph.Patch{
		Label:       m.Label,
		Description: m.Description,
		Position:    m.Position,
		VariantID:   m.VariantID,
		ActivePorts: m.ActivePorts,
	}
	if len(m.Properties) > 0 {
		p.Properties = make(map[string]cty.Value, len(m.Properties))
		for k, v := range m.Properties {
			p.Properties[k] = v.Value
		}
	}
	return p
}

type portView struct {
	Name          string         `json:"name"`
	Type          model.DataType `json:"type"`
	AllowMultiple bool           `json:"allow_multiple"`
}

type nodeView struct {
	ID          nodeid.ID                          `json:"id"`
	ModuleID    string                             `json:"module_id"`
	Label       string                             `json:"label"`
	Description string                             `json:"description,omitempty"`
	Position    graph.Position                     `json:"position"`
	VariantID   string                             `json:"variant_id,omitempty"`
	Properties  map[string]ctyjson.SimpleJSONValue `json:"properties"`
	Inputs      []portView                         `json:"inputs"`
	Outputs     []portView                         `json:"outputs"`
}

func viewNode(n *graph.Node) nodeView {
	v := nodeView{
		ID:          n.ID,
		ModuleID:    n.ModuleID,
		Label:       n.Label,
		Description: n.Description,
		Position:    n.Position,
		VariantID:   n.VariantID,
		Properties:  make(map[string]ctyjson.SimpleJSONValue, len(n.Properties)),
		Inputs:      []portView{},
		Outputs:     []portView{},
	}
	for k, val := range n.Properties {
		if val.Type() == cty.NilType || !val.IsWhollyKnown() {
			continue
		}
		v.Properties[k] = ctyjson.SimpleJSONValue{Value: val}
	}
	for _, p := range n.DisplayablePorts() {
		pv := portView{Name: p.Name, Type: p.EffectiveType(), AllowMultiple: p.AllowMultiple}
		if p.Direction == model.Input {
			v.Inputs = append(v.Inputs, pv)
		} else {
			v.Outputs = append(v.Outputs, pv)
		}
	}
	return v
}

type graphView struct {
	Nodes  []nodeView   `json:"nodes"`
	Edges  []graph.Edge `json:"edges"`
	Status graph.Status `json:"status"`
	Text   string       `json:"text"`
}

func viewGraph(s graph.Snapshot) graphView {
	g := graphView{
		Nodes:  make([]nodeView, 0, len(s.Nodes)),
		Edges:  s.Edges,
		Status: s.Status,
		Text:   engine.Describe(s.Status),
	}
	if g.Edges == nil {
		g.Edges = []graph.Edge{}
	}
	for _, n := range s.Nodes {
		g.Nodes = append(g.Nodes, viewNode(n))
	}
	return g
}

type selectionView struct {
	Kind  string         `json:"kind"`
	Sheet *inspect.Sheet `json:"sheet,omitempty"`
}

type moduleView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Kind        model.ModuleKind `json:"kind"`
	Category    string           `json:"category"`
	Icon        string           `json:"icon,omitempty"`
	Color       string           `json:"color,omitempty"`
	Description string           `json:"description,omitempty"`
}

type categoryView struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Modules []moduleView `json:"modules"`
}

type catalogView struct {
	Categories []categoryView `json:"categories"`
	Modules    []moduleView   `json:"modules"`
}

func viewCatalog(cats []model.Category, mods []*model.ModuleDefinition) catalogView {
	c := catalogView{Categories: []categoryView{}, Modules: make([]moduleView, 0, len(mods))}
	byCat := make(map[string][]moduleView)
	for _, m := range mods {
		mv := moduleView{
			ID:          m.ID,
			Name:        m.Name,
			Kind:        m.Kind,
			Category:    m.Category,
			Icon:        m.Icon,
			Color:       m.Color,
			Description: m.Description,
		}
		c.Modules = append(c.Modules, mv)
		byCat[m.Category] = append(byCat[m.Category], mv)
	}
	for _, cat := range cats {
		mods := byCat[cat.Key]
		if mods == nil {
			mods = []moduleView{}
		}
		c.Categories = append(c.Categories, categoryView{Key: cat.Key, Title: cat.Title, Modules: mods})
	}
	return c
}
