package graph

import (
	"strings"
	"unicode"

	"github.com/sgharlow/living-docs/internal/analysis"
	"github.com/sgharlow/living-docs/internal/shared/util"
)

// categorySegments is checked in precedence order: the first segment hit wins.
var categorySegments = []struct {
	segment  string
	category Category
}{
	{"components", CategoryComponents},
	{"services", CategoryServices},
	{"utils", CategoryUtils},
	{"core", CategoryCore},
}

var entryBaseNames = map[string]bool{
	"index": true,
	"main":  true,
	"app":   true,
}

func categorize(path string) Category {
	segments := strings.Split(util.NormalizePath(path), "/")
	for _, known := range categorySegments {
		for _, seg := range segments {
			if seg == known.segment {
				return known.category
			}
		}
	}
	if isTestPath(path) {
		return CategoryTest
	}
	return CategoryOther
}

func isTestPath(path string) bool {
	normalized := util.NormalizePath(path)
	base := baseName(normalized)
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") ||
		strings.HasSuffix(base, "_test.go") {
		return true
	}
	for _, seg := range strings.Split(normalized, "/") {
		if seg == "tests" || seg == "__tests__" {
			return true
		}
	}
	return false
}

func isEntryName(path string) bool {
	return entryBaseNames[strings.ToLower(util.StripExtension(baseName(path)))]
}

// moduleType picks the dominant declared construct of a file.
func moduleType(category Category, file *analysis.FileAnalysis) ModuleType {
	if file == nil {
		return TypeModule
	}
	if category == CategoryComponents && (len(file.Classes) > 0 || len(file.Functions) > 0) {
		return TypeComponent
	}
	switch {
	case len(file.Classes) > 0 && len(file.Classes) >= len(file.Interfaces):
		return TypeClass
	case len(file.Interfaces) > 0:
		return TypeInterface
	case len(file.Functions) > 0:
		return TypeFunction
	default:
		return TypeModule
	}
}

func moduleSize(file *analysis.FileAnalysis) int {
	if file == nil {
		return 0
	}
	declared := len(file.Functions) + len(file.Classes) + len(file.Interfaces)
	if declared == 0 {
		return len(file.Exports)
	}
	return declared
}

func baseName(path string) string {
	normalized := util.NormalizePath(path)
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 {
		return normalized[idx+1:]
	}
	return normalized
}

// sanitizeID derives a diagram-safe identifier from a module path.
func sanitizeID(path string) string {
	if path == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range path {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "m"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}
