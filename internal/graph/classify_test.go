package graph

import (
	"testing"

	"github.com/sgharlow/living-docs/internal/analysis"
)

func TestCategorize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		expected Category
	}{
		{name: "Components", path: "src/components/Button.tsx", expected: CategoryComponents},
		{name: "Services", path: "src/services/auth.ts", expected: CategoryServices},
		{name: "Utils", path: "src/utils/math.ts", expected: CategoryUtils},
		{name: "Core", path: "src/core/engine.ts", expected: CategoryCore},
		{name: "SegmentBeatsTestSuffix", path: "src/components/Button.test.tsx", expected: CategoryComponents},
		{name: "TestSuffix", path: "src/parser.test.ts", expected: CategoryTest},
		{name: "SpecSuffix", path: "src/parser.spec.ts", expected: CategoryTest},
		{name: "TestsDir", path: "tests/setup.ts", expected: CategoryTest},
		{name: "DunderTestsDir", path: "src/__tests__/app.ts", expected: CategoryTest},
		{name: "Other", path: "src/app.ts", expected: CategoryOther},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := categorize(tc.path); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestIsTestPath(t *testing.T) {
	t.Parallel()

	if !isTestPath("src/components/Button.test.tsx") {
		t.Error("*.test.* should be a test file regardless of category")
	}
	if isTestPath("src/attestation.ts") {
		t.Error("substring matches must not trigger on plain names")
	}
}

func TestIsEntryName(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"src/index.ts", "cmd/main.go", "src/App.tsx"} {
		if !isEntryName(p) {
			t.Errorf("%s should match the entry naming convention", p)
		}
	}
	for _, p := range []string{"src/indexer.ts", "src/mainframe.ts"} {
		if isEntryName(p) {
			t.Errorf("%s should not match the entry naming convention", p)
		}
	}
}

func TestModuleType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		category Category
		file     *analysis.FileAnalysis
		expected ModuleType
	}{
		{
			name:     "Class",
			category: CategoryOther,
			file:     &analysis.FileAnalysis{Classes: []analysis.ClassInfo{{Name: "A"}}},
			expected: TypeClass,
		},
		{
			name:     "Interface",
			category: CategoryOther,
			file:     &analysis.FileAnalysis{Interfaces: []analysis.InterfaceInfo{{Name: "I"}}},
			expected: TypeInterface,
		},
		{
			name:     "Function",
			category: CategoryOther,
			file:     &analysis.FileAnalysis{Functions: []analysis.FunctionInfo{{Name: "f"}}},
			expected: TypeFunction,
		},
		{
			name:     "Component",
			category: CategoryComponents,
			file:     &analysis.FileAnalysis{Functions: []analysis.FunctionInfo{{Name: "Button"}}},
			expected: TypeComponent,
		},
		{name: "Bare", category: CategoryOther, file: &analysis.FileAnalysis{}, expected: TypeModule},
		{name: "Nil", category: CategoryOther, file: nil, expected: TypeModule},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := moduleType(tc.category, tc.file); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestSanitizeID(t *testing.T) {
	t.Parallel()

	if got := sanitizeID("src/utils/math.ts"); got != "src_utils_math_ts" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := sanitizeID("1weird"); got != "m_1weird" {
		t.Fatalf("ids must not start with a digit, got %q", got)
	}
	if got := sanitizeID(""); got != "m" {
		t.Fatalf("empty path should fall back, got %q", got)
	}
}
