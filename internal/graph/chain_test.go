package graph

import (
	"reflect"
	"testing"

	"github.com/sgharlow/living-docs/internal/analysis"
)

func TestFindImportChain(t *testing.T) {
	g := Build(snapshotOf(map[string]*analysis.FileAnalysis{
		"src/a.ts": {Imports: []analysis.ImportInfo{{Source: "./b"}}},
		"src/b.ts": {Imports: []analysis.ImportInfo{{Source: "./c"}}},
		"src/c.ts": {},
	}), BuildOptions{})

	chain, ok := g.FindImportChain("src/a.ts", "src/c.ts")
	if !ok {
		t.Fatal("expected a chain from a to c")
	}
	if !reflect.DeepEqual(chain, []string{"src/a.ts", "src/b.ts", "src/c.ts"}) {
		t.Fatalf("unexpected chain %v", chain)
	}

	if _, ok := g.FindImportChain("src/c.ts", "src/a.ts"); ok {
		t.Error("chains must follow edge direction")
	}
	if _, ok := g.FindImportChain("src/a.ts", "missing.ts"); ok {
		t.Error("unknown endpoints must not produce a chain")
	}

	self, ok := g.FindImportChain("src/b.ts", "src/b.ts")
	if !ok || len(self) != 1 {
		t.Errorf("self chain should be the single module, got %v %v", self, ok)
	}
}

func TestComputeDegrees(t *testing.T) {
	g := Build(snapshotOf(map[string]*analysis.FileAnalysis{
		"src/a.ts": {Imports: []analysis.ImportInfo{{Source: "./shared"}}},
		"src/b.ts": {Imports: []analysis.ImportInfo{{Source: "./shared"}}},
		"src/shared.ts": {},
	}), BuildOptions{})

	degrees := g.ComputeDegrees()
	if degrees["src/shared.ts"].FanIn != 2 {
		t.Errorf("expected fan-in 2, got %d", degrees["src/shared.ts"].FanIn)
	}
	if degrees["src/a.ts"].FanOut != 1 {
		t.Errorf("expected fan-out 1, got %d", degrees["src/a.ts"].FanOut)
	}

	top := g.MostDependedUpon(1)
	if len(top) != 1 || top[0] != "src/shared.ts" {
		t.Errorf("expected shared.ts on top, got %v", top)
	}
}
