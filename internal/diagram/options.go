// Package diagram renders a dependency graph into Mermaid diagram documents:
// a flat dependency view, layer and cluster groupings, per-cluster component
// views and a bounded flow traversal from entry points. Rendering is a pure
// mapping from graph to text; an empty or fully-filtered graph yields
// diagrams with zero nodes and edges.
package diagram

type Type string

const (
	TypeDependencyGraph Type = "dependency-graph"
	TypeLayers          Type = "architecture-layers"
	TypeClusters        Type = "module-clusters"
	TypeComponent       Type = "component"
	TypeFlow            Type = "flow"
)

// Options control filtering and traversal. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	Direction       string // Mermaid layout token: TD, LR, BT, RL
	Theme           string // optional Mermaid theme directive
	IncludeTests    bool
	IncludeExternal bool
	MinWeight       int    // relations below this weight are dropped
	MaxDepth        int    // flow traversal depth cap
	Focus           string // keep only modules whose path contains this
}

func DefaultOptions() Options {
	return Options{
		Direction: "TD",
		MinWeight: 1,
		MaxDepth:  4,
	}
}

func (o Options) direction() string {
	switch o.Direction {
	case "TD", "LR", "BT", "RL":
		return o.Direction
	}
	return "TD"
}

// Diagram is one rendered document. Content is Mermaid text that downstream
// pages embed verbatim in fenced code blocks.
type Diagram struct {
	Type        Type
	Title       string
	Content     string
	Description string
	NodeCount   int
	EdgeCount   int
	Complexity  string // low, medium, high
}

// flow traversal caps: at most three start points and three outgoing edges
// per visited node, so rendering cost stays independent of graph size.
const (
	maxFlowEntryPoints = 3
	maxFlowBranching   = 3
)

func classifyComplexity(nodes, edges int) string {
	switch total := nodes + edges; {
	case total <= 20:
		return "low"
	case total <= 50:
		return "medium"
	default:
		return "high"
	}
}
