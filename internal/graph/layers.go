package graph

import (
	"strings"

	"github.com/sgharlow/living-docs/internal/shared/util"
)

// assignLayers computes the topological depth of every module: no resolved
// outgoing edge means layer 0, otherwise 1 + max(layer of each dependency).
// A dependency still on the visitation stack counts as layer 0, so cyclic
// graphs terminate and every module lands in exactly one layer.
func assignLayers(modules map[string]*Module, relations []Relation) [][]string {
	adjacency := make(map[string][]string, len(modules))
	for _, rel := range relations {
		if _, ok := modules[rel.From]; !ok {
			continue
		}
		if _, ok := modules[rel.To]; !ok {
			continue
		}
		adjacency[rel.From] = append(adjacency[rel.From], rel.To)
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(modules))
	layerOf := make(map[string]int, len(modules))

	var visit func(string) int
	visit = func(p string) int {
		switch state[p] {
		case inProgress:
			return 0 // cycle break
		case done:
			return layerOf[p]
		}
		state[p] = inProgress

		layer := 0
		for _, dep := range adjacency[p] {
			if candidate := 1 + visit(dep); candidate > layer {
				layer = candidate
			}
		}

		state[p] = done
		layerOf[p] = layer
		return layer
	}

	maxLayer := 0
	for _, p := range util.SortedStringKeys(modules) {
		if l := visit(p); l > maxLayer {
			maxLayer = l
		}
	}

	layers := make([][]string, maxLayer+1)
	for i := range layers {
		layers[i] = make([]string, 0)
	}
	for _, p := range util.SortedStringKeys(modules) {
		layers[layerOf[p]] = append(layers[layerOf[p]], p)
	}
	if len(modules) == 0 {
		return [][]string{}
	}
	return layers
}

// buildClusters groups modules by shared category, then by shared top-level
// path segment below the project root. Groups under two members are not
// materialized. Nested subpackages never form their own clusters.
func buildClusters(modules map[string]*Module, projectRoot string) []Cluster {
	clusters := make([]Cluster, 0)

	byCategory := make(map[Category][]string)
	for _, p := range util.SortedStringKeys(modules) {
		cat := modules[p].Category
		byCategory[cat] = append(byCategory[cat], p)
	}
	// CategoryOther is the absence of a shared trait and forms no cluster.
	for _, cat := range []Category{CategoryCore, CategoryComponents, CategoryServices, CategoryUtils, CategoryTest} {
		members := byCategory[cat]
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, Cluster{
			Name:    categoryClusterName(cat),
			Kind:    ClusterByCategory,
			Modules: members,
		})
	}

	byPackage := make(map[string][]string)
	for _, p := range util.SortedStringKeys(modules) {
		segment := topLevelSegment(p, projectRoot)
		if segment == "" {
			continue
		}
		byPackage[segment] = append(byPackage[segment], p)
	}
	for _, segment := range util.SortedStringKeys(byPackage) {
		members := byPackage[segment]
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, Cluster{
			Name:    segment,
			Kind:    ClusterByPackage,
			Modules: members,
		})
	}

	return clusters
}

func categoryClusterName(cat Category) string {
	s := string(cat)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// topLevelSegment returns the first path segment below the project root, or
// "" for files sitting directly in the root.
func topLevelSegment(p, projectRoot string) string {
	rel := util.NormalizePath(p)
	if projectRoot != "" && util.HasPathPrefix(rel, projectRoot) {
		rel = strings.TrimPrefix(strings.TrimPrefix(rel, projectRoot), "/")
	}
	parts := strings.Split(rel, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// markEntryPoints flags a module when its name matches the conventional
// entry family or when no other module depends on it. Both checks stand on
// their own.
func markEntryPoints(g *DependencyGraph) {
	incoming := make(map[string]int, len(g.Modules))
	for _, rel := range g.ResolvedRelations() {
		incoming[rel.To]++
	}

	for _, p := range util.SortedStringKeys(g.Modules) {
		mod := g.Modules[p]
		if isEntryName(p) || incoming[p] == 0 {
			mod.IsEntryPoint = true
			g.EntryPoints = append(g.EntryPoints, p)
		}
	}
}
