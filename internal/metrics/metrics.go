// Package metrics holds the Prometheus collectors of the editor engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pipecanvas"

// Rejection reasons.
const (
	ReasonIncompatibleTypes = "incompatible_types"
	ReasonStructural        = "structural"
	ReasonNodeBusy          = "node_busy"
)

// Metrics is a set of collectors registered on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	nodesPlaced          prometheus.Counter
	nodesRemoved         prometheus.Counter
	edgesCreated         prometheus.Counter
	connectionsRejected  *prometheus.CounterVec
	reconciliations      *prometheus.CounterVec
	resolutionFailures   *prometheus.CounterVec
	graphNodes           prometheus.Gauge
	graphEdges           prometheus.Gauge
	transportConnections prometheus.Gauge
}

// New creates and registers the collectors, plus the Go runtime and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		nodesPlaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "graph", Name: "nodes_placed_total",
			Help: "Nodes placed on the canvas.",
		}),
		nodesRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "graph", Name: "nodes_removed_total",
			Help: "Nodes removed from the canvas.",
		}),
		edgesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "graph", Name: "edges_created_total",
			Help: "Connections created.",
		}),
		connectionsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "graph", Name: "connections_rejected_total",
			Help: "Connection attempts rejected, by reason.",
		}, []string{"reason"}),
		reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reconcile", Name: "outcomes_total",
			Help: "Port-changing edits, by outcome.",
		}, []string{"outcome"}),
		resolutionFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "registry", Name: "resolution_failures_total",
			Help: "Variant resolutions that fell back to no ports, by module.",
		}, []string{"module"}),
		graphNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "graph", Name: "nodes",
			Help: "Nodes currently in the workflow.",
		}),
		graphEdges: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "graph", Name: "edges",
			Help: "Connections currently in the workflow.",
		}),
		transportConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "transport", Name: "connections",
			Help: "Connected renderer clients.",
		}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) NodePlaced()  { m.nodesPlaced.Inc() }
func (m *Metrics) NodeRemoved() { m.nodesRemoved.Inc() }
func (m *Metrics) EdgeCreated() { m.edgesCreated.Inc() }

// ConnectionRejected counts a rejected connection attempt.
func (m *Metrics) ConnectionRejected(reason string) {
	m.connectionsRejected.WithLabelValues(reason).Inc()
}

// Reconciliation counts a reconciler outcome.
func (m *Metrics) Reconciliation(outcome string) {
	m.reconciliations.WithLabelValues(outcome).Inc()
}

// ResolutionFailed counts a failed variant resolution.
func (m *Metrics) ResolutionFailed(moduleID string) {
	m.resolutionFailures.WithLabelValues(moduleID).Inc()
}

// GraphSize records the current node and edge counts.
func (m *Metrics) GraphSize(nodes, edges int) {
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
}

func (m *Metrics) ClientConnected()    { m.transportConnections.Inc() }
func (m *Metrics) ClientDisconnected() { m.transportConnections.Dec() }
