package metrics

import (
	"sort"

	"github.com/sgharlow/living-docs/internal/graph"
)

// DetectCycles walks the resolved relation graph depth-first with a
// recursion stack. Hitting a module already on the stack records the path
// slice from its first occurrence through the current module. Overlapping
// cycles may each be reported; no cross-cycle deduplication happens.
func DetectCycles(g *graph.DependencyGraph) [][]string {
	adjacency := adjacencyOf(g)

	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	paths := make([]string, 0, len(g.Modules))
	for p := range g.Modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if !visited[p] {
			findCycles(p, adjacency, visited, onStack, []string{}, &cycles)
		}
	}

	return cycles
}

func findCycles(curr string, adjacency map[string][]string, visited, onStack map[string]bool, path []string, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range adjacency[curr] {
		if onStack[next] {
			cycleStart := -1
			for i, mod := range path {
				if mod == next {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]string, len(path)-cycleStart)
				copy(cycle, path[cycleStart:])
				*cycles = append(*cycles, cycle)
			}
		} else if !visited[next] {
			findCycles(next, adjacency, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}

func adjacencyOf(g *graph.DependencyGraph) map[string][]string {
	adjacency := make(map[string][]string, len(g.Modules))
	seen := make(map[string]bool)
	for _, rel := range g.ResolvedRelations() {
		key := rel.From + "->" + rel.To
		if seen[key] {
			continue
		}
		seen[key] = true
		adjacency[rel.From] = append(adjacency[rel.From], rel.To)
	}
	for p := range adjacency {
		sort.Strings(adjacency[p])
	}
	return adjacency
}
