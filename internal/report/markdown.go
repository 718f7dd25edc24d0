// Package report renders the analysis output as a markdown document with
// frontmatter, summary tables and embedded Mermaid diagrams.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sgharlow/living-docs/internal/diagram"
	"github.com/sgharlow/living-docs/internal/graph"
	"github.com/sgharlow/living-docs/internal/metrics"
)

const (
	maxEntryPointRows = 5
	maxHotspotRows    = 5
)

type MarkdownReportData struct {
	Graph           *graph.DependencyGraph
	Metrics         metrics.ArchitectureMetrics
	Recommendations []string
	Diagrams        []diagram.Diagram
	Languages       []string
}

type MarkdownReportOptions struct {
	ProjectName     string
	Version         string
	RunID           string
	GeneratedAt     time.Time
	TableOfContents bool
	IncludeDiagrams bool
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data MarkdownReportData, opts MarkdownReportOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Architecture Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Architecture Report\n\n")
	if opts.TableOfContents {
		b.WriteString("## Table of Contents\n")
		b.WriteString("- [Executive Summary](#executive-summary)\n")
		b.WriteString("- [Quality Scores](#quality-scores)\n")
		b.WriteString("- [Circular Dependencies](#circular-dependencies)\n")
		b.WriteString("- [Layer Violations](#layer-violations)\n")
		b.WriteString("- [Recommendations](#recommendations)\n")
		b.WriteString("- [Module Breakdown](#module-breakdown)\n")
		b.WriteString("- [Dependency Hotspots](#dependency-hotspots)\n")
		b.WriteString("- [Entry Points](#entry-points)\n")
		if opts.IncludeDiagrams && len(data.Diagrams) > 0 {
			b.WriteString("- [Diagrams](#diagrams)\n")
		}
		b.WriteString("\n")
	}

	m.writeSummary(&b, data)
	m.writeScores(&b, data.Metrics)
	m.writeCycles(&b, data.Metrics.CyclicDependencies)
	m.writeViolations(&b, data.Metrics.LayerViolations)
	m.writeRecommendations(&b, data.Recommendations)
	m.writeBreakdown(&b, data.Graph)
	m.writeHotspots(&b, data.Graph)
	m.writeEntryPoints(&b, data.Graph)
	if opts.IncludeDiagrams {
		m.writeDiagrams(&b, data.Diagrams)
	}

	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("Run `%s` generated at %s\n", opts.RunID, opts.GeneratedAt.UTC().Format(time.RFC3339)))
	return b.String(), nil
}

func (m *MarkdownGenerator) writeSummary(b *strings.Builder, data MarkdownReportData) {
	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Modules | %d |\n", data.Metrics.TotalModules))
	b.WriteString(fmt.Sprintf("| Dependencies | %d |\n", data.Metrics.TotalDependencies))
	b.WriteString(fmt.Sprintf("| Layers | %d |\n", len(data.Graph.Layers)))
	b.WriteString(fmt.Sprintf("| Clusters | %d |\n", len(data.Graph.Clusters)))
	b.WriteString(fmt.Sprintf("| Entry Points | %d |\n", len(data.Graph.EntryPoints)))
	if len(data.Languages) > 0 {
		b.WriteString(fmt.Sprintf("| Languages | %s |\n", strings.Join(data.Languages, ", ")))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeScores(b *strings.Builder, ms metrics.ArchitectureMetrics) {
	b.WriteString("## Quality Scores\n")
	b.WriteString("| Score | Value | Scale |\n")
	b.WriteString("| --- | --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Cohesion | %.1f | 0-10 |\n", ms.CohesionScore))
	b.WriteString(fmt.Sprintf("| Coupling | %.1f | 0-10 |\n", ms.CouplingScore))
	b.WriteString(fmt.Sprintf("| Complexity | %.1f | 0-10 |\n", ms.ComplexityScore))
	b.WriteString(fmt.Sprintf("| Maintainability | %.1f | 0-100 |\n\n", ms.MaintainabilityIndex))
}

func (m *MarkdownGenerator) writeCycles(b *strings.Builder, cycles [][]string) {
	b.WriteString("## Circular Dependencies\n")
	if len(cycles) == 0 {
		b.WriteString("No circular dependencies detected.\n\n")
		return
	}
	b.WriteString("| # | Cycle | Length |\n")
	b.WriteString("| --- | --- | --- |\n")
	for i, cycle := range cycles {
		b.WriteString(fmt.Sprintf("| %d | `%s` | %d |\n", i+1, strings.Join(cycle, " -> "), len(cycle)))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeViolations(b *strings.Builder, violations []metrics.LayerViolation) {
	b.WriteString("## Layer Violations\n")
	if len(violations) == 0 {
		b.WriteString("No layer violations detected.\n\n")
		return
	}
	b.WriteString("| From | To | From Layer | To Layer |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, v := range violations {
		b.WriteString(fmt.Sprintf("| `%s` | `%s` | %d | %d |\n", v.From, v.To, v.FromLayer, v.ToLayer))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeRecommendations(b *strings.Builder, recs []string) {
	b.WriteString("## Recommendations\n")
	if len(recs) == 0 {
		b.WriteString("No recommendations. The architecture looks healthy.\n\n")
		return
	}
	for _, rec := range recs {
		b.WriteString("- " + rec + "\n")
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeBreakdown(b *strings.Builder, g *graph.DependencyGraph) {
	b.WriteString("## Module Breakdown\n")
	counts := make(map[graph.Category]int)
	for _, mod := range g.Modules {
		counts[mod.Category]++
	}
	if len(counts) == 0 {
		b.WriteString("No modules analyzed.\n\n")
		return
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	b.WriteString("| Category | Modules |\n")
	b.WriteString("| --- | --- |\n")
	for _, c := range categories {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", c, counts[graph.Category(c)]))
	}
	b.WriteString("\n")
}

// writeHotspots lists the modules with the highest fan-in. These are the
// riskiest places to change.
func (m *MarkdownGenerator) writeHotspots(b *strings.Builder, g *graph.DependencyGraph) {
	b.WriteString("## Dependency Hotspots\n")
	degrees := g.ComputeDegrees()
	hotspots := make([]string, 0, maxHotspotRows)
	for _, p := range g.MostDependedUpon(maxHotspotRows) {
		if degrees[p].FanIn > 0 {
			hotspots = append(hotspots, p)
		}
	}
	if len(hotspots) == 0 {
		b.WriteString("No shared modules detected.\n\n")
		return
	}
	b.WriteString("| Module | Fan-in | Fan-out |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, p := range hotspots {
		b.WriteString(fmt.Sprintf("| `%s` | %d | %d |\n", p, degrees[p].FanIn, degrees[p].FanOut))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeEntryPoints(b *strings.Builder, g *graph.DependencyGraph) {
	b.WriteString("## Entry Points\n")
	if len(g.EntryPoints) == 0 {
		b.WriteString("No entry points detected.\n\n")
		return
	}
	shown := g.EntryPoints
	if len(shown) > maxEntryPointRows {
		shown = shown[:maxEntryPointRows]
	}
	for _, p := range shown {
		b.WriteString("- `" + p + "`\n")
	}
	if rest := len(g.EntryPoints) - len(shown); rest > 0 {
		b.WriteString(fmt.Sprintf("- and %d more\n", rest))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeDiagrams(b *strings.Builder, diagrams []diagram.Diagram) {
	if len(diagrams) == 0 {
		return
	}
	b.WriteString("## Diagrams\n")
	for _, d := range diagrams {
		b.WriteString("### " + d.Title + "\n")
		if d.Description != "" {
			b.WriteString(d.Description + "\n\n")
		}
		b.WriteString("```mermaid\n")
		b.WriteString(strings.TrimSpace(d.Content))
		b.WriteString("\n```\n\n")
	}
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
