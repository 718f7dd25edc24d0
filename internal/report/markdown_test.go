package report

import (
	"strings"
	"testing"
	"time"

	"github.com/sgharlow/living-docs/internal/diagram"
	"github.com/sgharlow/living-docs/internal/graph"
	"github.com/sgharlow/living-docs/internal/metrics"
)

func reportFixture() MarkdownReportData {
	return MarkdownReportData{
		Graph: &graph.DependencyGraph{
			Modules: map[string]*graph.Module{
				"src/index.ts":         {Path: "src/index.ts", Category: graph.CategoryOther},
				"src/services/api.ts":  {Path: "src/services/api.ts", Category: graph.CategoryServices},
				"src/utils/helpers.ts": {Path: "src/utils/helpers.ts", Category: graph.CategoryUtils},
			},
			Layers:      [][]string{{"src/utils/helpers.ts"}, {"src/services/api.ts"}, {"src/index.ts"}},
			EntryPoints: []string{"src/index.ts"},
		},
		Metrics: metrics.ArchitectureMetrics{
			TotalModules:         3,
			TotalDependencies:    2,
			CohesionScore:        5.0,
			CouplingScore:        8.2,
			ComplexityScore:      9.1,
			MaintainabilityIndex: 74.3,
		},
		Languages: []string{"typescript"},
	}
}

func TestMarkdownGenerator_Frontmatter(t *testing.T) {
	gen := NewMarkdownGenerator()
	out, err := gen.Generate(reportFixture(), MarkdownReportOptions{
		ProjectName: "demo",
		Version:     "1.2.3",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	if !strings.HasPrefix(out, "---\ntitle: Architecture Report\n") {
		t.Fatal("expected frontmatter header")
	}
	for _, want := range []string{
		"project: demo",
		"version: 1.2.3",
		"generated_at: 2026-03-01T12:00:00Z",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing frontmatter line %q", want)
		}
	}
}

func TestMarkdownGenerator_ScoresAndSummary(t *testing.T) {
	gen := NewMarkdownGenerator()
	out, err := gen.Generate(reportFixture(), MarkdownReportOptions{})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	for _, want := range []string{
		"| Modules | 3 |",
		"| Dependencies | 2 |",
		"| Languages | typescript |",
		"| Cohesion | 5.0 | 0-10 |",
		"| Coupling | 8.2 | 0-10 |",
		"| Complexity | 9.1 | 0-10 |",
		"| Maintainability | 74.3 | 0-100 |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing row %q in:\n%s", want, out)
		}
	}
}

func TestMarkdownGenerator_HealthySectionsReadQuiet(t *testing.T) {
	gen := NewMarkdownGenerator()
	out, err := gen.Generate(reportFixture(), MarkdownReportOptions{})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	for _, want := range []string{
		"No circular dependencies detected.",
		"No layer violations detected.",
		"No recommendations. The architecture looks healthy.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing quiet section line %q", want)
		}
	}
}

func TestMarkdownGenerator_CyclesAndViolations(t *testing.T) {
	data := reportFixture()
	data.Metrics.CyclicDependencies = [][]string{{"src/a.ts", "src/b.ts"}}
	data.Metrics.LayerViolations = []metrics.LayerViolation{
		{From: "src/a.ts", To: "src/b.ts", FromLayer: 2, ToLayer: 0},
	}
	data.Recommendations = []string{"Break 1 circular dependency chains"}

	gen := NewMarkdownGenerator()
	out, err := gen.Generate(data, MarkdownReportOptions{})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	if !strings.Contains(out, "| 1 | `src/a.ts -> src/b.ts` | 2 |") {
		t.Fatalf("missing cycle row in:\n%s", out)
	}
	if !strings.Contains(out, "| `src/a.ts` | `src/b.ts` | 2 | 0 |") {
		t.Fatalf("missing violation row in:\n%s", out)
	}
	if !strings.Contains(out, "- Break 1 circular dependency chains") {
		t.Fatalf("missing recommendation bullet in:\n%s", out)
	}
}

func TestMarkdownGenerator_DependencyHotspots(t *testing.T) {
	data := reportFixture()
	data.Graph.Relations = []graph.Relation{
		{From: "src/index.ts", To: "src/utils/helpers.ts", Type: graph.RelationImport, Weight: 1},
		{From: "src/services/api.ts", To: "src/utils/helpers.ts", Type: graph.RelationImport, Weight: 1},
	}

	gen := NewMarkdownGenerator()
	out, err := gen.Generate(data, MarkdownReportOptions{})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	if !strings.Contains(out, "| `src/utils/helpers.ts` | 2 | 0 |") {
		t.Fatalf("missing hotspot row in:\n%s", out)
	}

	out, err = gen.Generate(reportFixture(), MarkdownReportOptions{})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	if !strings.Contains(out, "No shared modules detected.") {
		t.Fatal("expected quiet hotspot section without relations")
	}
}

func TestMarkdownGenerator_EntryPointListCapped(t *testing.T) {
	data := reportFixture()
	data.Graph.EntryPoints = []string{
		"src/a.ts", "src/b.ts", "src/c.ts", "src/d.ts", "src/e.ts", "src/f.ts", "src/g.ts",
	}

	gen := NewMarkdownGenerator()
	out, err := gen.Generate(data, MarkdownReportOptions{})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	if !strings.Contains(out, "- `src/e.ts`") {
		t.Fatal("expected fifth entry point to be listed")
	}
	if strings.Contains(out, "- `src/f.ts`") {
		t.Fatal("expected sixth entry point to be elided")
	}
	if !strings.Contains(out, "- and 2 more") {
		t.Fatal("expected elision note for remaining entry points")
	}
}

func TestMarkdownGenerator_EmbedsDiagrams(t *testing.T) {
	data := reportFixture()
	data.Diagrams = []diagram.Diagram{
		{
			Type:        diagram.TypeDependencyGraph,
			Title:       "Dependency Graph",
			Description: "Module dependency graph: 3 modules, 2 dependencies",
			Content:     "graph TD\n  a --> b\n",
		},
	}

	gen := NewMarkdownGenerator()
	out, err := gen.Generate(data, MarkdownReportOptions{IncludeDiagrams: true, TableOfContents: true})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	for _, want := range []string{
		"- [Diagrams](#diagrams)",
		"### Dependency Graph",
		"```mermaid\ngraph TD\n  a --> b\n```",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMarkdownGenerator_RunFooter(t *testing.T) {
	gen := NewMarkdownGenerator()
	out, err := gen.Generate(reportFixture(), MarkdownReportOptions{
		RunID:       "run-42",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	if !strings.Contains(out, "Run `run-42` generated at 2026-03-01T12:00:00Z") {
		t.Fatalf("missing run footer in:\n%s", out)
	}

	out, err = gen.Generate(reportFixture(), MarkdownReportOptions{})
	if err != nil {
		t.Fatalf("generate markdown: %v", err)
	}
	if !strings.Contains(out, "Run `") {
		t.Fatal("expected a generated run id in the footer")
	}
}
