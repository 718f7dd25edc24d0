package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

// Tracer is the engine-wide tracer. Span export is the embedding
// application's concern; without a configured SDK these are no-ops.
var Tracer = otel.Tracer("livingdocs")

// Metrics definitions
var (
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livingdocs_graph_nodes_total",
		Help: "Number of module nodes in the most recently built dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livingdocs_graph_edges_total",
		Help: "Number of dependency relations in the most recently built graph.",
	})

	GraphCycles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livingdocs_graph_cycles_total",
		Help: "Number of cyclic dependencies detected in the last analysis.",
	})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "livingdocs_graph_build_seconds",
		Help:    "Time spent building the dependency graph from an analysis snapshot.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "livingdocs_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	DiagramsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livingdocs_diagrams_generated_total",
		Help: "Total number of diagrams rendered, by diagram type.",
	}, []string{"type"})
)
