package diagram

import (
	"fmt"
	"strings"

	"github.com/sgharlow/living-docs/internal/graph"
	"github.com/sgharlow/living-docs/internal/metrics"
	"github.com/sgharlow/living-docs/internal/shared/observability"
)

type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}
	return &Renderer{opts: opts}
}

// RenderAll produces the full overview diagram set. Metrics only feed the
// descriptions; the diagram bodies derive from the graph alone.
func (r *Renderer) RenderAll(g *graph.DependencyGraph, m metrics.ArchitectureMetrics) []Diagram {
	diagrams := []Diagram{
		r.DependencyGraph(g, m),
		r.ArchitectureLayers(g),
		r.ModuleClusters(g),
	}
	diagrams = append(diagrams, r.Components(g)...)
	diagrams = append(diagrams, r.Flow(g))
	return diagrams
}

// DependencyGraph renders every filtered module and relation as a flat
// node/edge list styled by category.
func (r *Renderer) DependencyGraph(g *graph.DependencyGraph, m metrics.ArchitectureMetrics) Diagram {
	view := filterGraph(g, r.opts)
	extIDs := externalIDs(view)

	var b strings.Builder
	r.writeHeader(&b, "graph")
	for _, p := range view.order {
		writeNode(&b, view.modules[p], 1)
	}
	for _, ext := range view.external {
		b.WriteString(fmt.Sprintf("  %s[\"▤ %s\"]\n", extIDs[ext], escapeLabel(externalName(ext))))
	}

	edges := 0
	b.WriteString("\n")
	for _, rel := range view.relations {
		toID, ok := r.endpointID(view, extIDs, rel.To)
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", view.modules[rel.From].ID, edgeToken(rel.Type), toID))
		edges++
	}
	writeStyles(&b, view.modules, view.order)

	nodes := len(view.order) + len(view.external)
	description := fmt.Sprintf("Module dependency graph: %d modules, %d dependencies", nodes, edges)
	if n := len(m.CyclicDependencies); n > 0 {
		description += fmt.Sprintf(", %d cyclic", n)
	}
	return r.finish(TypeDependencyGraph, "Dependency Graph", b.String(), description, nodes, edges)
}

// ArchitectureLayers buckets modules into one subgraph per layer index and
// draws inter-layer edges after all groups.
func (r *Renderer) ArchitectureLayers(g *graph.DependencyGraph) Diagram {
	view := filterGraph(g, r.opts)

	var b strings.Builder
	r.writeHeader(&b, "graph")

	nodes := 0
	for i, layer := range g.Layers {
		members := make([]string, 0, len(layer))
		for _, p := range layer {
			if view.has(p) {
				members = append(members, p)
			}
		}
		if len(members) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  subgraph layer_%d[\"Layer %d\"]\n", i, i))
		for _, p := range members {
			writeNode(&b, view.modules[p], 2)
			nodes++
		}
		b.WriteString("  end\n")
	}

	edges := 0
	b.WriteString("\n")
	for _, rel := range view.relations {
		if !view.has(rel.To) {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", view.modules[rel.From].ID, edgeToken(rel.Type), view.modules[rel.To].ID))
		edges++
	}
	writeStyles(&b, view.modules, view.order)

	description := fmt.Sprintf("Modules grouped by dependency depth across %d layers", len(g.Layers))
	return r.finish(TypeLayers, "Architecture Layers", b.String(), description, nodes, edges)
}

// ModuleClusters buckets modules by cluster membership. A module showing up
// in both a package and a category cluster renders in the package one;
// package groupings are the more specific of the two.
func (r *Renderer) ModuleClusters(g *graph.DependencyGraph) Diagram {
	view := filterGraph(g, r.opts)
	assignment := clusterAssignment(g)

	grouped := make(map[string][]string)
	loose := make([]string, 0)
	for _, p := range view.order {
		if name, ok := assignment[p]; ok {
			grouped[name] = append(grouped[name], p)
		} else {
			loose = append(loose, p)
		}
	}

	var b strings.Builder
	r.writeHeader(&b, "graph")

	nodes := 0
	for _, cluster := range g.Clusters {
		members := grouped[cluster.Name]
		if len(members) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  subgraph cluster_%s[\"%s\"]\n", sanitizeGroupID(cluster.Name), escapeLabel(cluster.Name)))
		for _, p := range members {
			writeNode(&b, view.modules[p], 2)
			nodes++
		}
		b.WriteString("  end\n")
		delete(grouped, cluster.Name)
	}
	for _, p := range loose {
		writeNode(&b, view.modules[p], 1)
		nodes++
	}

	edges := 0
	b.WriteString("\n")
	for _, rel := range view.relations {
		if !view.has(rel.To) {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", view.modules[rel.From].ID, edgeToken(rel.Type), view.modules[rel.To].ID))
		edges++
	}
	writeStyles(&b, view.modules, view.order)

	description := fmt.Sprintf("Modules grouped into %d clusters by category and package", len(g.Clusters))
	return r.finish(TypeClusters, "Module Clusters", b.String(), description, nodes, edges)
}

// Components renders one diagram per cluster holding 3 to 15 modules,
// keeping only relations internal to that cluster.
func (r *Renderer) Components(g *graph.DependencyGraph) []Diagram {
	view := filterGraph(g, r.opts)

	diagrams := make([]Diagram, 0)
	for _, cluster := range g.Clusters {
		members := make([]string, 0, len(cluster.Modules))
		for _, p := range cluster.Modules {
			if view.has(p) {
				members = append(members, p)
			}
		}
		if len(members) < 3 || len(members) > 15 {
			continue
		}
		memberSet := make(map[string]bool, len(members))
		for _, p := range members {
			memberSet[p] = true
		}

		var b strings.Builder
		r.writeHeader(&b, "graph")
		b.WriteString(fmt.Sprintf("  subgraph component_%s[\"%s\"]\n", sanitizeGroupID(cluster.Name), escapeLabel(cluster.Name)))
		for _, p := range members {
			b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", view.modules[p].ID, componentLabel(view.modules[p])))
		}
		b.WriteString("  end\n\n")

		edges := 0
		for _, rel := range view.relations {
			if !memberSet[rel.From] || !memberSet[rel.To] {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n", view.modules[rel.From].ID, edgeToken(rel.Type), view.modules[rel.To].ID))
			edges++
		}
		memberModules := make(map[string]*graph.Module, len(members))
		for _, p := range members {
			memberModules[p] = view.modules[p]
		}
		writeStyles(&b, memberModules, members)

		diagrams = append(diagrams, r.finish(
			TypeComponent,
			"Component: "+cluster.Name,
			b.String(),
			fmt.Sprintf("Internal structure of the %s cluster (%d modules)", cluster.Name, len(members)),
			len(members),
			edges,
		))
	}
	return diagrams
}

// Flow traverses IMPORT relations from up to three entry points, bounded by
// the depth cap and three outgoing edges per node, never revisiting a node.
func (r *Renderer) Flow(g *graph.DependencyGraph) Diagram {
	view := filterGraph(g, r.opts)

	starts := make([]string, 0, maxFlowEntryPoints)
	for _, p := range g.EntryPoints {
		if view.has(p) {
			starts = append(starts, p)
		}
		if len(starts) == maxFlowEntryPoints {
			break
		}
	}

	type flowEdge struct{ from, to string }
	visited := make(map[string]bool)
	order := make([]string, 0)
	flowEdges := make([]flowEdge, 0)

	outgoing := make(map[string][]graph.Relation)
	for _, rel := range view.relations {
		if rel.Type != graph.RelationImport || !view.has(rel.To) {
			continue
		}
		outgoing[rel.From] = append(outgoing[rel.From], rel)
	}

	var walk func(p string, depth int)
	walk = func(p string, depth int) {
		if visited[p] {
			return
		}
		visited[p] = true
		order = append(order, p)
		if depth >= r.opts.MaxDepth {
			return
		}

		targets := outgoing[p]
		if len(targets) > maxFlowBranching {
			targets = strongestRelations(targets, maxFlowBranching)
		}
		for _, rel := range targets {
			if !visited[rel.To] {
				flowEdges = append(flowEdges, flowEdge{from: p, to: rel.To})
				walk(rel.To, depth+1)
			}
		}
	}
	for _, start := range starts {
		walk(start, 0)
	}

	var b strings.Builder
	r.writeHeader(&b, "flowchart")
	for _, p := range order {
		writeNode(&b, view.modules[p], 1)
	}
	b.WriteString("\n")
	for _, e := range flowEdges {
		b.WriteString(fmt.Sprintf("  %s --> %s\n", view.modules[e.from].ID, view.modules[e.to].ID))
	}
	flowModules := make(map[string]*graph.Module, len(order))
	for _, p := range order {
		flowModules[p] = view.modules[p]
	}
	writeStyles(&b, flowModules, order)

	description := fmt.Sprintf("Program flow from %d entry points, depth capped at %d", len(starts), r.opts.MaxDepth)
	return r.finish(TypeFlow, "Module Flow", b.String(), description, len(order), len(flowEdges))
}

func (r *Renderer) finish(t Type, title, content, description string, nodes, edges int) Diagram {
	observability.DiagramsGenerated.WithLabelValues(string(t)).Inc()
	return Diagram{
		Type:        t,
		Title:       title,
		Content:     content,
		Description: description,
		NodeCount:   nodes,
		EdgeCount:   edges,
		Complexity:  classifyComplexity(nodes, edges),
	}
}

func (r *Renderer) writeHeader(b *strings.Builder, decl string) {
	if theme := r.opts.Theme; theme != "" && theme != "default" {
		b.WriteString(fmt.Sprintf("%%%%{init: {'theme': '%s'}}%%%%\n", theme))
	}
	b.WriteString(decl + " " + r.opts.direction() + "\n")
}

func (r *Renderer) endpointID(view filteredView, extIDs map[string]string, to string) (string, bool) {
	if view.has(to) {
		return view.modules[to].ID, true
	}
	if id, ok := extIDs[to]; ok {
		return id, true
	}
	return "", false
}

func writeNode(b *strings.Builder, mod *graph.Module, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(fmt.Sprintf("%s[\"%s\"]\n", mod.ID, nodeLabel(mod)))
}

// clusterAssignment picks at most one rendering cluster per module,
// preferring package clusters over category ones.
func clusterAssignment(g *graph.DependencyGraph) map[string]string {
	assignment := make(map[string]string)
	for _, kind := range []graph.ClusterKind{graph.ClusterByPackage, graph.ClusterByCategory} {
		for _, cluster := range g.Clusters {
			if cluster.Kind != kind {
				continue
			}
			for _, p := range cluster.Modules {
				if _, taken := assignment[p]; !taken {
					assignment[p] = cluster.Name
				}
			}
		}
	}
	return assignment
}

func externalIDs(view filteredView) map[string]string {
	ids := make(map[string]string, len(view.external))
	for _, ext := range view.external {
		ids[ext] = "ext_" + sanitizeGroupID(ext)
	}
	return ids
}

func externalName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// strongestRelations keeps the n heaviest relations, breaking weight ties by
// target path for determinism.
func strongestRelations(relations []graph.Relation, n int) []graph.Relation {
	sorted := append([]graph.Relation(nil), relations...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0; j-- {
			a, b := sorted[j-1], sorted[j]
			if a.Weight > b.Weight || (a.Weight == b.Weight && a.To <= b.To) {
				break
			}
			sorted[j-1], sorted[j] = b, a
		}
	}
	return sorted[:n]
}
