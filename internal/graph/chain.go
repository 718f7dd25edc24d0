package graph

import (
	"sort"

	"github.com/sgharlow/living-docs/internal/shared/util"
)

// Degrees holds per-module fan-in/fan-out over resolved relations.
type Degrees struct {
	FanIn  int
	FanOut int
}

// ComputeDegrees counts distinct dependency targets and dependents per module.
func (g *DependencyGraph) ComputeDegrees() map[string]Degrees {
	out := make(map[string][]string, len(g.Modules))
	in := make(map[string][]string, len(g.Modules))
	for _, rel := range g.ResolvedRelations() {
		out[rel.From] = appendUnique(out[rel.From], rel.To)
		in[rel.To] = appendUnique(in[rel.To], rel.From)
	}

	degrees := make(map[string]Degrees, len(g.Modules))
	for p := range g.Modules {
		degrees[p] = Degrees{FanIn: len(in[p]), FanOut: len(out[p])}
	}
	return degrees
}

// FindImportChain returns the shortest dependency path between two modules,
// following relations in the from->to direction.
func (g *DependencyGraph) FindImportChain(from, to string) ([]string, bool) {
	if _, ok := g.Modules[from]; !ok {
		return nil, false
	}
	if _, ok := g.Modules[to]; !ok {
		return nil, false
	}
	if from == to {
		return []string{from}, true
	}

	adjacency := make(map[string][]string, len(g.Modules))
	for _, rel := range g.ResolvedRelations() {
		adjacency[rel.From] = appendUnique(adjacency[rel.From], rel.To)
	}
	for p := range adjacency {
		sort.Strings(adjacency[p])
	}

	queue := []string{from}
	visited := map[string]bool{from: true}
	prev := make(map[string]string)

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range adjacency[curr] {
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = curr

			if next == to {
				path := []string{to}
				for node := to; node != from; {
					p, ok := prev[node]
					if !ok {
						return nil, false
					}
					path = append(path, p)
					node = p
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, true
			}

			queue = append(queue, next)
		}
	}

	return nil, false
}

// MostDependedUpon lists up to n module paths ordered by descending fan-in.
func (g *DependencyGraph) MostDependedUpon(n int) []string {
	if n <= 0 {
		return nil
	}
	degrees := g.ComputeDegrees()
	paths := util.SortedStringKeys(g.Modules)
	sort.SliceStable(paths, func(i, j int) bool {
		return degrees[paths[i]].FanIn > degrees[paths[j]].FanIn
	})
	if len(paths) > n {
		paths = paths[:n]
	}
	return paths
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
