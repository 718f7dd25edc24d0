// Package metrics derives structural quality metrics from a dependency
// graph: cycles, layering violations and four bounded heuristic scores. All
// functions are pure; degenerate graphs still produce well-defined values.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sgharlow/living-docs/internal/graph"
	"github.com/sgharlow/living-docs/internal/shared/observability"
)

// LayerViolation is a relation pointing from a deeper layer back to a
// shallower one, against the intended shallow-to-deep dependency direction.
type LayerViolation struct {
	From      string
	To        string
	FromLayer int
	ToLayer   int
}

func (v LayerViolation) String() string {
	return fmt.Sprintf("%s (layer %d) -> %s (layer %d)", v.From, v.FromLayer, v.To, v.ToLayer)
}

type ArchitectureMetrics struct {
	TotalModules                 int
	TotalDependencies            int
	AverageDependenciesPerModule float64
	CyclicDependencies           [][]string
	LayerViolations              []LayerViolation
	CohesionScore                float64 // 0-10, higher = more cohesive clusters
	CouplingScore                float64 // 0-10, higher = looser coupling
	ComplexityScore              float64 // 0-10, higher = simpler
	MaintainabilityIndex         float64 // 0-100
}

// Analyze computes the full metric set for a graph.
func Analyze(g *graph.DependencyGraph) ArchitectureMetrics {
	resolved := g.ResolvedRelations()

	m := ArchitectureMetrics{
		TotalModules:       len(g.Modules),
		TotalDependencies:  len(resolved),
		CyclicDependencies: DetectCycles(g),
		LayerViolations:    detectLayerViolations(g, resolved),
	}
	if m.TotalModules > 0 {
		m.AverageDependenciesPerModule = float64(m.TotalDependencies) / float64(m.TotalModules)
	}

	m.CohesionScore = cohesionScore(g, resolved)
	m.CouplingScore = couplingScore(m.TotalModules, m.TotalDependencies)
	m.ComplexityScore = complexityScore(m.TotalModules, m.TotalDependencies, len(g.Clusters))
	m.MaintainabilityIndex = maintainabilityIndex(m)

	observability.GraphCycles.Set(float64(len(m.CyclicDependencies)))
	return m
}

func detectLayerViolations(g *graph.DependencyGraph, resolved []graph.Relation) []LayerViolation {
	layerOf := make(map[string]int, len(g.Modules))
	for i, layer := range g.Layers {
		for _, p := range layer {
			layerOf[p] = i
		}
	}

	violations := make([]LayerViolation, 0)
	for _, rel := range resolved {
		from, okFrom := layerOf[rel.From]
		to, okTo := layerOf[rel.To]
		if !okFrom || !okTo {
			continue
		}
		if from > to {
			violations = append(violations, LayerViolation{
				From:      rel.From,
				To:        rel.To,
				FromLayer: from,
				ToLayer:   to,
			})
		}
	}
	return violations
}

// cohesionScore averages internal/(n*(n-1))*10 over clusters of size >= 2,
// defaulting to the neutral 5 when no cluster qualifies.
func cohesionScore(g *graph.DependencyGraph, resolved []graph.Relation) float64 {
	qualifying := 0
	sum := 0.0

	for _, cluster := range g.Clusters {
		n := len(cluster.Modules)
		if n < 2 {
			continue
		}
		members := make(map[string]bool, n)
		for _, p := range cluster.Modules {
			members[p] = true
		}
		internal := 0
		for _, rel := range resolved {
			if members[rel.From] && members[rel.To] {
				internal++
			}
		}
		sum += float64(internal) / float64(n*(n-1)) * 10
		qualifying++
	}

	if qualifying == 0 {
		return 5
	}
	return clampScore(sum / float64(qualifying))
}

func couplingScore(moduleCount, relationCount int) float64 {
	if moduleCount <= 1 {
		return 10
	}
	density := float64(relationCount) / float64(moduleCount*(moduleCount-1))
	return clampScore(10 - density*10)
}

// complexityScore blends three normalized pressure signals: module count,
// relation density and cluster dilution.
func complexityScore(moduleCount, relationCount, clusterCount int) float64 {
	modulePressure := capAtOne(float64(moduleCount) / 100)

	relationPressure := 0.0
	if moduleCount > 0 {
		relationPressure = capAtOne(float64(relationCount) / float64(2*moduleCount))
	}

	clusterPressure := 0.0
	if clusterCount > 0 {
		clusterPressure = capAtOne(float64(moduleCount) / float64(clusterCount) / 10)
	}

	avg := (modulePressure + relationPressure + clusterPressure) / 3
	return clampScore(10 - avg*10)
}

func maintainabilityIndex(m ArchitectureMetrics) float64 {
	base := (m.CohesionScore + m.CouplingScore + m.ComplexityScore) / 3 * 10

	cyclePenalty := float64(5 * len(m.CyclicDependencies))
	if cyclePenalty > 20 {
		cyclePenalty = 20
	}
	violationPenalty := float64(2 * len(m.LayerViolations))
	if violationPenalty > 15 {
		violationPenalty = 15
	}

	index := base - cyclePenalty - violationPenalty
	if index < 0 {
		return 0
	}
	return index
}

// Recommend emits every applicable suggestion; the rules are independent.
func Recommend(g *graph.DependencyGraph, m ArchitectureMetrics) []string {
	recommendations := make([]string, 0)

	if n := len(m.CyclicDependencies); n > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Break %d cyclic dependencies by extracting shared code into separate modules", n))
	}
	if n := len(m.LayerViolations); n > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Resolve %d layer violations so dependencies only point from shallow to deep layers", n))
	}
	if m.CohesionScore < 5 {
		recommendations = append(recommendations,
			"Improve cohesion by grouping related functionality into the same clusters")
	}
	if m.CouplingScore < 5 {
		recommendations = append(recommendations,
			"Reduce coupling by cutting cross-module dependencies or introducing interfaces")
	}
	if m.ComplexityScore < 5 {
		recommendations = append(recommendations,
			"Reduce structural complexity by splitting the codebase into smaller, focused areas")
	}

	large := make([]string, 0)
	for p, mod := range g.Modules {
		if mod.Size > 20 {
			large = append(large, p)
		}
	}
	if len(large) > 0 {
		sort.Strings(large)
		recommendations = append(recommendations,
			fmt.Sprintf("Split %d large modules (>20 members): %s", len(large), joinPreview(large, 3)))
	}

	if len(g.Clusters) == 0 && len(g.Modules) > 0 {
		recommendations = append(recommendations,
			"Organize modules into packages or categories; no clusters were detected")
	}
	if len(g.EntryPoints) > 5 {
		recommendations = append(recommendations,
			fmt.Sprintf("Consolidate entry points; %d modules look like program roots", len(g.EntryPoints)))
	}

	return recommendations
}

func joinPreview(values []string, max int) string {
	if len(values) <= max {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:max], ", ") + ", ..."
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func capAtOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
