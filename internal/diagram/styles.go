package diagram

import (
	"fmt"
	"strings"

	"github.com/sgharlow/living-docs/internal/graph"
)

// Static lookup tables keep the renderer a pure mapping from graph to text.

// edgeTokens maps each relation type to its Mermaid arrow.
var edgeTokens = map[graph.RelationType]string{
	graph.RelationImport:     "-->",
	graph.RelationExtends:    "-.->",
	graph.RelationImplements: "==>",
	graph.RelationUses:       "-. uses .->",
}

// typeGlyphs prefix every node label with a construct indicator.
var typeGlyphs = map[graph.ModuleType]string{
	graph.TypeClass:     "◼",
	graph.TypeInterface: "◻",
	graph.TypeFunction:  "ƒ",
	graph.TypeComponent: "⬡",
	graph.TypeModule:    "▤",
}

// categoryStyles maps module categories to the five fixed classDef names.
// CategoryOther carries no style class.
var categoryStyles = map[graph.Category]string{
	graph.CategoryCore:       "core",
	graph.CategoryUtils:      "util",
	graph.CategoryComponents: "component",
	graph.CategoryServices:   "service",
	graph.CategoryTest:       "test",
}

var classDefs = []string{
	"classDef core fill:#ffd54f,stroke:#f57f17,stroke-width:2px",
	"classDef util fill:#b0bec5,stroke:#455a64,stroke-width:1px",
	"classDef component fill:#81c784,stroke:#2e7d32,stroke-width:1px",
	"classDef service fill:#64b5f6,stroke:#1565c0,stroke-width:1px",
	"classDef test fill:#e0e0e0,stroke:#9e9e9e,stroke-dasharray:4 3",
}

func edgeToken(t graph.RelationType) string {
	if token, ok := edgeTokens[t]; ok {
		return token
	}
	return "-->"
}

func nodeLabel(mod *graph.Module) string {
	glyph := typeGlyphs[mod.Type]
	if glyph == "" {
		glyph = typeGlyphs[graph.TypeModule]
	}
	return glyph + " " + escapeLabel(mod.Name)
}

// componentLabel adds the size qualifier used by component diagrams.
func componentLabel(mod *graph.Module) string {
	label := nodeLabel(mod)
	switch {
	case mod.Size > 20:
		label += " · Large"
	case mod.Size >= 10:
		label += " · Medium"
	}
	return label
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}

// sanitizeGroupID turns arbitrary names into identifiers usable in subgraph
// and node declarations.
func sanitizeGroupID(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// writeStyles emits the classDef block plus one class-assignment line per
// populated category.
func writeStyles(b *strings.Builder, modules map[string]*graph.Module, order []string) {
	byStyle := make(map[string][]string)
	for _, p := range order {
		mod := modules[p]
		style, ok := categoryStyles[mod.Category]
		if !ok {
			continue
		}
		byStyle[style] = append(byStyle[style], mod.ID)
	}
	if len(byStyle) == 0 {
		return
	}

	b.WriteString("\n")
	for _, def := range classDefs {
		b.WriteString("  " + def + "\n")
	}
	for _, style := range []string{"core", "util", "component", "service", "test"} {
		ids := byStyle[style]
		if len(ids) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  class %s %s;\n", strings.Join(ids, ","), style))
	}
}
