package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sgharlow/living-docs/internal/analysis"
	"github.com/sgharlow/living-docs/internal/core/errors"
	"github.com/sgharlow/living-docs/internal/diagram"
	"github.com/sgharlow/living-docs/internal/graph"
	"github.com/sgharlow/living-docs/internal/metrics"
	"github.com/sgharlow/living-docs/internal/report"
	"github.com/sgharlow/living-docs/internal/shared/observability"
	"github.com/sgharlow/living-docs/internal/shared/util"
)

// RunResult is the full output of one pipeline run.
type RunResult struct {
	RunID           string
	Snapshot        *analysis.Snapshot
	Graph           *graph.DependencyGraph
	Metrics         metrics.ArchitectureMetrics
	Recommendations []string
	Diagrams        []diagram.Diagram
	Report          string
}

// Run executes the pipeline against a snapshot file: load, build, analyze,
// render, report.
func (a *App) Run(ctx context.Context, snapshotPath string) (*RunResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run",
		trace.WithAttributes(attribute.String("snapshot.path", snapshotPath)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot, err := analysis.LoadSnapshot(snapshotPath)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "load_snapshot")
	}
	return a.RunSnapshot(ctx, snapshot)
}

// RunSnapshot executes the pipeline against an already-loaded snapshot.
func (a *App) RunSnapshot(ctx context.Context, snapshot *analysis.Snapshot) (*RunResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunSnapshot")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errors.New(errors.CodeValidationError, "snapshot is required")
	}
	span.SetAttributes(attribute.Int("snapshot.files", len(snapshot.Files)))

	result := &RunResult{
		RunID:    uuid.NewString(),
		Snapshot: snapshot,
	}
	projectName := snapshot.ProjectName
	if strings.TrimSpace(a.Config.Project.Name) != "" {
		projectName = a.Config.Project.Name
	}

	start := time.Now()
	result.Graph = graph.Build(snapshot, graph.BuildOptions{
		ProjectRoot: a.Config.Project.Root,
		Exclude:     a.excludes,
	})
	observability.BuildDuration.Observe(time.Since(start).Seconds())
	a.Logger.Info("graph built",
		"run_id", result.RunID,
		"modules", len(result.Graph.Modules),
		"relations", len(result.Graph.Relations),
		"layers", len(result.Graph.Layers),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	result.Metrics = metrics.Analyze(result.Graph)
	result.Recommendations = metrics.Recommend(result.Graph, result.Metrics)
	observability.AnalysisDuration.WithLabelValues("metrics").Observe(time.Since(start).Seconds())
	a.Logger.Info("metrics computed",
		"run_id", result.RunID,
		"cycles", len(result.Metrics.CyclicDependencies),
		"maintainability", result.Metrics.MaintainabilityIndex,
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	renderer := diagram.NewRenderer(a.diagramOptions())
	result.Diagrams = renderer.RenderAll(result.Graph, result.Metrics)
	observability.AnalysisDuration.WithLabelValues("diagrams").Observe(time.Since(start).Seconds())

	generator := report.NewMarkdownGenerator()
	reportText, err := generator.Generate(
		report.MarkdownReportData{
			Graph:           result.Graph,
			Metrics:         result.Metrics,
			Recommendations: result.Recommendations,
			Diagrams:        result.Diagrams,
			Languages:       snapshot.Languages(),
		},
		report.MarkdownReportOptions{
			ProjectName:     projectName,
			Version:         Version,
			RunID:           result.RunID,
			TableOfContents: a.Config.Output.TableOfContents,
			IncludeDiagrams: a.Config.Output.EmbedDiagrams,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate report")
	}
	result.Report = reportText

	a.recordRun(result.RunID, len(result.Graph.Modules))
	return result, nil
}

// WriteOutputs writes the report and one Mermaid file per diagram under the
// configured output directory. It returns the written paths.
func (a *App) WriteOutputs(result *RunResult) ([]string, error) {
	if result == nil {
		return nil, errors.New(errors.CodeValidationError, "run result is required")
	}

	written := make([]string, 0, len(result.Diagrams)+1)

	reportPath := filepath.Join(a.Config.Output.Dir, a.Config.Output.ReportFile)
	if err := util.WriteStringWithDirs(reportPath, result.Report, 0o644); err != nil {
		return written, errors.AddContext(err, errors.CtxPath, reportPath)
	}
	written = append(written, reportPath)

	diagramsDir := filepath.Join(a.Config.Output.Dir, a.Config.Output.DiagramsDir)
	usedNames := make(map[string]int)
	for _, d := range result.Diagrams {
		name := diagramFileName(d)
		// Distinct clusters can slug to the same name; suffix duplicates.
		if n := usedNames[name]; n > 0 {
			usedNames[name] = n + 1
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ".mmd"), n+1, ".mmd")
		} else {
			usedNames[name] = 1
		}
		path := filepath.Join(diagramsDir, name)
		if err := util.WriteStringWithDirs(path, d.Content, 0o644); err != nil {
			return written, errors.AddContext(err, errors.CtxPath, path)
		}
		written = append(written, path)
	}

	a.Logger.Info("outputs written", "run_id", result.RunID, "files", len(written))
	return written, nil
}

func (a *App) diagramOptions() diagram.Options {
	opts := diagram.DefaultOptions()
	opts.Direction = a.Config.Diagrams.Direction
	opts.Theme = a.Config.Diagrams.Theme
	opts.IncludeTests = a.Config.Diagrams.IncludeTests
	opts.IncludeExternal = a.Config.Diagrams.IncludeExternal
	opts.MinWeight = a.Config.Diagrams.MinWeight
	opts.MaxDepth = a.Config.Diagrams.MaxDepth
	opts.Focus = a.Config.Diagrams.Focus
	return opts
}

// diagramFileName derives a stable file name per diagram. Component diagrams
// share a type, so their cluster name disambiguates.
func diagramFileName(d diagram.Diagram) string {
	name := string(d.Type)
	if d.Type == diagram.TypeComponent {
		cluster := strings.TrimPrefix(d.Title, "Component: ")
		name = fmt.Sprintf("%s-%s", name, slugify(cluster))
	}
	return name + ".mmd"
}

func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
