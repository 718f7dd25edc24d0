package graph

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/sgharlow/living-docs/internal/analysis"
	"github.com/sgharlow/living-docs/internal/shared/observability"
	"github.com/sgharlow/living-docs/internal/shared/util"
)

// BuildOptions control module admission. Excluded paths never become nodes;
// relations touching them resolve to nothing and are silently dropped.
type BuildOptions struct {
	ProjectRoot string
	Exclude     []glob.Glob
}

// Build converts an analysis snapshot into a DependencyGraph. It never fails:
// malformed or unresolvable inputs degrade into smaller graphs.
func Build(snapshot *analysis.Snapshot, opts BuildOptions) *DependencyGraph {
	g := &DependencyGraph{
		Modules:     make(map[string]*Module),
		Relations:   make([]Relation, 0),
		Layers:      make([][]string, 0),
		Clusters:    make([]Cluster, 0),
		EntryPoints: make([]string, 0),
	}
	if snapshot == nil || len(snapshot.Files) == 0 {
		return g
	}

	root := util.NormalizePath(opts.ProjectRoot)
	if root == "" {
		root = snapshot.ProjectRoot
	}

	paths := util.SortedStringKeys(snapshot.Files)
	usedIDs := make(map[string]int, len(paths))
	for _, p := range paths {
		if excluded(p, opts.Exclude) {
			continue
		}
		g.Modules[p] = newModule(p, snapshot.Files[p], usedIDs)
	}

	exporters := buildExportIndex(g.Modules)
	g.Relations = extractRelations(snapshot, g.Modules, exporters)
	g.Layers = assignLayers(g.Modules, g.Relations)
	g.Clusters = buildClusters(g.Modules, root)
	markEntryPoints(g)

	observability.GraphNodes.Set(float64(len(g.Modules)))
	observability.GraphEdges.Set(float64(len(g.Relations)))
	return g
}

func excluded(path string, patterns []glob.Glob) bool {
	for _, p := range patterns {
		if p != nil && p.Match(path) {
			return true
		}
	}
	return false
}

func newModule(p string, file *analysis.FileAnalysis, usedIDs map[string]int) *Module {
	id := sanitizeID(p)
	if n := usedIDs[id]; n > 0 {
		usedIDs[id] = n + 1
		id = fmt.Sprintf("%s_%d", id, n+1)
	} else {
		usedIDs[id] = 1
	}

	category := categorize(p)
	mod := &Module{
		Path:       p,
		ID:         id,
		Name:       util.StripExtension(baseName(p)),
		Category:   category,
		Type:       moduleType(category, file),
		Size:       moduleSize(file),
		IsTestFile: isTestPath(p),
	}
	if file != nil {
		if len(file.Exports) > 0 {
			mod.Exports = append([]string(nil), file.Exports...)
		} else {
			mod.Exports = declaredExports(file)
		}
	}
	return mod
}

// declaredExports falls back to exported declaration names for files whose
// analysis record carries no explicit export list.
func declaredExports(file *analysis.FileAnalysis) []string {
	var exports []string
	for _, fn := range file.Functions {
		if fn.Exported {
			exports = append(exports, fn.Name)
		}
	}
	for _, class := range file.Classes {
		if class.Exported {
			exports = append(exports, class.Name)
		}
	}
	for _, iface := range file.Interfaces {
		if iface.Exported {
			exports = append(exports, iface.Name)
		}
	}
	return exports
}

// buildExportIndex maps an exported symbol name to the sorted paths that
// export it. Explicit export lists win; exported declarations fill the gaps.
func buildExportIndex(modules map[string]*Module) map[string][]string {
	index := make(map[string][]string)
	for _, p := range util.SortedStringKeys(modules) {
		for _, name := range modules[p].Exports {
			index[name] = append(index[name], p)
		}
	}
	return index
}

func extractRelations(snapshot *analysis.Snapshot, modules map[string]*Module, exporters map[string][]string) []Relation {
	relations := make([]Relation, 0)
	seen := make(map[string]bool)

	add := func(rel Relation) {
		if rel.From == rel.To {
			return
		}
		key := rel.From + "|" + string(rel.Type) + "|" + rel.To
		if seen[key] {
			return
		}
		seen[key] = true
		relations = append(relations, rel)
	}

	for _, from := range util.SortedStringKeys(modules) {
		file := snapshot.Files[from]
		if file == nil {
			continue
		}

		for _, imp := range file.Imports {
			if target, ok := resolveImport(from, imp.Source, modules); ok {
				add(Relation{
					From:    from,
					To:      target,
					Type:    RelationImport,
					Weight:  importWeight(imp),
					Details: fmt.Sprintf("%s imports %s", modules[from].Name, modules[target].Name),
				})
				continue
			}
			// Unresolved specifier: fall back to matching imported symbols
			// against known exporters. Third-party packages match nothing
			// and yield no relation.
			if target, symbols := resolveBySymbols(from, imp.Symbols, exporters); target != "" {
				add(Relation{
					From:    from,
					To:      target,
					Type:    RelationUses,
					Weight:  usesWeight,
					Details: fmt.Sprintf("%s uses %s", modules[from].Name, strings.Join(symbols, ", ")),
				})
			}
		}

		for _, class := range file.Classes {
			if class.Extends != "" {
				if target := exporterOf(class.Extends, from, exporters); target != "" {
					add(Relation{
						From:    from,
						To:      target,
						Type:    RelationExtends,
						Weight:  extendsWeight,
						Details: fmt.Sprintf("%s extends %s", class.Name, class.Extends),
					})
				}
			}
			for _, iface := range class.Implements {
				if target := exporterOf(iface, from, exporters); target != "" {
					add(Relation{
						From:    from,
						To:      target,
						Type:    RelationImplements,
						Weight:  implementsWeight,
						Details: fmt.Sprintf("%s implements %s", class.Name, iface),
					})
				}
			}
		}

		for _, iface := range file.Interfaces {
			for _, parent := range iface.Extends {
				if target := exporterOf(parent, from, exporters); target != "" {
					add(Relation{
						From:    from,
						To:      target,
						Type:    RelationExtends,
						Weight:  extendsWeight,
						Details: fmt.Sprintf("%s extends %s", iface.Name, parent),
					})
				}
			}
		}
	}

	return relations
}

// Relation weights are a deterministic heuristic bounded to [1,10]:
// IMPORT scales with the number of imported symbols (1 + min(refs, 9),
// side-effect imports count 1), the structural relation kinds carry fixed
// strengths.
const (
	extendsWeight    = 8
	implementsWeight = 7
	usesWeight       = 5
)

func importWeight(imp analysis.ImportInfo) int {
	refs := len(imp.Symbols)
	if imp.Default {
		refs++
	}
	if refs == 0 {
		return 1
	}
	if refs > 9 {
		refs = 9
	}
	return 1 + refs
}

// resolveImport maps an import specifier to a known module path. Relative
// specifiers resolve against the importing file's directory; bare specifiers
// are tried as project-rooted paths. Extensions are ignored on both sides,
// and "dir" matches "dir/index.*".
func resolveImport(from, source string, modules map[string]*Module) (string, bool) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", false
	}

	var candidate string
	if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
		candidate = util.NormalizePath(path.Join(path.Dir(from), source))
	} else {
		candidate = util.NormalizePath(source)
	}
	if candidate == "" {
		return "", false
	}

	if _, ok := modules[candidate]; ok {
		return candidate, true
	}

	bare := util.StripExtension(candidate)
	var matches []string
	for _, p := range util.SortedStringKeys(modules) {
		stripped := util.StripExtension(p)
		if stripped == bare {
			matches = append(matches, p)
			continue
		}
		if strings.HasSuffix(stripped, "/index") && strings.TrimSuffix(stripped, "/index") == bare {
			matches = append(matches, p)
		}
	}
	if len(matches) > 0 {
		return matches[0], true
	}
	return "", false
}

// resolveBySymbols finds the single module exporting the largest share of the
// imported symbols. Ambiguity (several exporters of one symbol) resolves to
// the lexicographically first path for determinism.
func resolveBySymbols(from string, symbols []string, exporters map[string][]string) (string, []string) {
	hits := make(map[string][]string)
	for _, symbol := range symbols {
		for _, p := range exporters[symbol] {
			if p == from {
				continue
			}
			hits[p] = append(hits[p], symbol)
			break
		}
	}
	best := ""
	for _, p := range util.SortedStringKeys(hits) {
		if best == "" || len(hits[p]) > len(hits[best]) {
			best = p
		}
	}
	if best == "" {
		return "", nil
	}
	return best, hits[best]
}

func exporterOf(symbol, from string, exporters map[string][]string) string {
	for _, p := range exporters[symbol] {
		if p != from {
			return p
		}
	}
	return ""
}
