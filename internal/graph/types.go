// Package graph builds a module dependency graph from per-file analysis
// records: one node per source file, typed weighted relations between them,
// a topological-depth layering, module clusters and entry points. The graph
// is built fresh per snapshot and is read-only once built.
package graph

type Category string

const (
	CategoryCore       Category = "core"
	CategoryComponents Category = "components"
	CategoryServices   Category = "services"
	CategoryUtils      Category = "utils"
	CategoryTest       Category = "test"
	CategoryOther      Category = "other"
)

type ModuleType string

const (
	TypeClass     ModuleType = "class"
	TypeInterface ModuleType = "interface"
	TypeFunction  ModuleType = "function"
	TypeComponent ModuleType = "component"
	TypeModule    ModuleType = "module"
)

type RelationType string

const (
	RelationImport     RelationType = "IMPORT"
	RelationExtends    RelationType = "EXTENDS"
	RelationImplements RelationType = "IMPLEMENTS"
	RelationUses       RelationType = "USES"
)

// Module is one analyzed source file.
type Module struct {
	Path         string
	ID           string // sanitized identifier used in rendered diagrams
	Name         string // base name, extension stripped
	Category     Category
	Type         ModuleType
	Size         int // top-level declared/exported member count
	IsEntryPoint bool
	IsTestFile   bool
	Exports      []string
}

// Relation is one directed, typed edge between two modules. Weight is a
// heuristic strength signal in [1,10]; it drives diagram filtering only.
type Relation struct {
	From    string
	To      string
	Type    RelationType
	Weight  int
	Details string
}

type ClusterKind string

const (
	ClusterByCategory ClusterKind = "category"
	ClusterByPackage  ClusterKind = "package"
)

// Cluster is a named group of at least two module paths.
type Cluster struct {
	Name    string
	Kind    ClusterKind
	Modules []string
}

type DependencyGraph struct {
	Modules     map[string]*Module
	Relations   []Relation
	Layers      [][]string // index = topological depth bucket
	Clusters    []Cluster
	EntryPoints []string
}

// LayerOf returns the layer index for a module path, or -1 when unknown.
func (g *DependencyGraph) LayerOf(path string) int {
	for i, layer := range g.Layers {
		for _, p := range layer {
			if p == path {
				return i
			}
		}
	}
	return -1
}

// ResolvedRelations returns the relations whose endpoints both key into
// Modules. Dangling relations are excluded from every computation but are
// never an error.
func (g *DependencyGraph) ResolvedRelations() []Relation {
	out := make([]Relation, 0, len(g.Relations))
	for _, rel := range g.Relations {
		if _, ok := g.Modules[rel.From]; !ok {
			continue
		}
		if _, ok := g.Modules[rel.To]; !ok {
			continue
		}
		out = append(out, rel)
	}
	return out
}
