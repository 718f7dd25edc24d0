package diagram

import (
	"sort"
	"strings"

	"github.com/sgharlow/living-docs/internal/graph"
	"github.com/sgharlow/living-docs/internal/shared/util"
)

// filteredView is the uniform pre-filtered slice of a graph every diagram
// type renders from.
type filteredView struct {
	modules   map[string]*graph.Module
	order     []string // kept module paths, sorted
	relations []graph.Relation
	external  []string // dangling relation targets kept by IncludeExternal
}

func (v filteredView) has(path string) bool {
	_, ok := v.modules[path]
	return ok
}

// filterGraph applies the type-independent filters: test exclusion, focus
// substring, minimum weight and external handling.
func filterGraph(g *graph.DependencyGraph, opts Options) filteredView {
	view := filteredView{modules: make(map[string]*graph.Module)}

	for _, p := range util.SortedStringKeys(g.Modules) {
		mod := g.Modules[p]
		if mod.IsTestFile && !opts.IncludeTests {
			continue
		}
		if opts.Focus != "" && !strings.Contains(p, opts.Focus) {
			continue
		}
		view.modules[p] = mod
		view.order = append(view.order, p)
	}

	externalSet := make(map[string]bool)
	for _, rel := range g.Relations {
		if rel.Weight < opts.MinWeight {
			continue
		}
		if !view.has(rel.From) {
			continue
		}
		if view.has(rel.To) {
			view.relations = append(view.relations, rel)
			continue
		}
		if _, known := g.Modules[rel.To]; known {
			// Known module filtered out above; its edges go with it.
			continue
		}
		if opts.IncludeExternal {
			externalSet[rel.To] = true
			view.relations = append(view.relations, rel)
		}
	}

	view.external = util.SortedStringKeys(externalSet)
	sortRelations(view.relations)
	return view
}

func sortRelations(relations []graph.Relation) {
	sort.SliceStable(relations, func(i, j int) bool {
		if relations[i].From != relations[j].From {
			return relations[i].From < relations[j].From
		}
		if relations[i].To != relations[j].To {
			return relations[i].To < relations[j].To
		}
		return relations[i].Type < relations[j].Type
	})
}
