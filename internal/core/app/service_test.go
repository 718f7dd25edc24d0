package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgharlow/living-docs/internal/analysis"
	"github.com/sgharlow/living-docs/internal/core/config"
	"github.com/sgharlow/living-docs/internal/core/errors"
	"github.com/sgharlow/living-docs/internal/diagram"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Project.Name = "demo"
	a, err := New(cfg, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	require.NoError(t, err)
	return a
}

func testSnapshot() *analysis.Snapshot {
	return &analysis.Snapshot{
		ProjectName: "snapshot-name",
		ProjectRoot: "src",
		Files: map[string]*analysis.FileAnalysis{
			"src/index.ts": {
				Language: "typescript",
				Imports:  []analysis.ImportInfo{{Source: "./services/api", Symbols: []string{"fetchUsers"}}},
			},
			"src/services/api.ts": {
				Language:  "typescript",
				Functions: []analysis.FunctionInfo{{Name: "fetchUsers", Exported: true}},
				Imports:   []analysis.ImportInfo{{Source: "../utils/helpers", Symbols: []string{"formatDate"}}},
				Exports:   []string{"fetchUsers"},
			},
			"src/utils/helpers.ts": {
				Language:  "typescript",
				Functions: []analysis.FunctionInfo{{Name: "formatDate", Exported: true}},
				Exports:   []string{"formatDate"},
			},
		},
	}
}

func TestRunSnapshot(t *testing.T) {
	a := newTestApp(t)

	result, err := a.RunSnapshot(context.Background(), testSnapshot())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Graph.Modules, 3)
	assert.Equal(t, 3, result.Metrics.TotalModules)
	assert.Equal(t, 2, result.Metrics.TotalDependencies)
	assert.Empty(t, result.Metrics.CyclicDependencies)
	assert.NotEmpty(t, result.Diagrams)
	assert.Contains(t, result.Report, "project: demo")
	assert.Contains(t, result.Report, result.RunID)
}

func TestRunSnapshotPrefersSnapshotNameWhenConfigUnset(t *testing.T) {
	cfg := config.Default()
	a, err := New(cfg, nil)
	require.NoError(t, err)

	result, err := a.RunSnapshot(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Contains(t, result.Report, "project: snapshot-name")
}

func TestRunSnapshotRejectsNil(t *testing.T) {
	a := newTestApp(t)

	_, err := a.RunSnapshot(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestRunSnapshotHonorsCancellation(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.RunSnapshot(ctx, testSnapshot())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunLoadsSnapshotFile(t *testing.T) {
	a := newTestApp(t)

	path := filepath.Join(t.TempDir(), "analysis.json")
	content := `{
		"project_name": "demo",
		"project_root": "src",
		"files": {
			"src/index.ts": {"language": "typescript", "imports": [{"source": "./util"}]},
			"src/util.ts": {"language": "typescript", "exports": ["helper"]}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := a.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, result.Graph.Modules, 2)
	assert.Equal(t, []string{"typescript"}, result.Snapshot.Languages())
}

func TestRunMissingSnapshot(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Run(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRunSnapshotExcludesConfiguredPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude.Paths = []string{"src/utils/**"}
	a, err := New(cfg, nil)
	require.NoError(t, err)

	result, err := a.RunSnapshot(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Len(t, result.Graph.Modules, 2)
	assert.NotContains(t, result.Graph.Modules, "src/utils/helpers.ts")
}

func TestWriteOutputs(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "docs")
	a, err := New(cfg, nil)
	require.NoError(t, err)

	result, err := a.RunSnapshot(context.Background(), testSnapshot())
	require.NoError(t, err)

	written, err := a.WriteOutputs(result)
	require.NoError(t, err)
	require.NotEmpty(t, written)

	assert.Equal(t, filepath.Join(cfg.Output.Dir, "architecture.md"), written[0])
	for _, path := range written {
		if _, statErr := os.Stat(path); statErr != nil {
			t.Errorf("expected output file %s: %v", path, statErr)
		}
	}
}

func TestWriteOutputsRejectsNil(t *testing.T) {
	a := newTestApp(t)

	_, err := a.WriteOutputs(nil)
	require.Error(t, err)
}

func TestDiagramFileName(t *testing.T) {
	assert.Equal(t, "dependency-graph.mmd", diagramFileName(diagram.Diagram{Type: diagram.TypeDependencyGraph}))
	assert.Equal(t, "component-services.mmd", diagramFileName(diagram.Diagram{
		Type:  diagram.TypeComponent,
		Title: "Component: Services",
	}))
}

func TestHealthReflectsLastRun(t *testing.T) {
	a := newTestApp(t)

	status := a.Health()
	assert.Equal(t, "up", status.Status)
	assert.Empty(t, status.LastRunID)

	result, err := a.RunSnapshot(context.Background(), testSnapshot())
	require.NoError(t, err)

	status = a.Health()
	assert.Equal(t, result.RunID, status.LastRunID)
	assert.Equal(t, 3, status.Modules)
}
