package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sgharlow/living-docs/internal/core/app"
	"github.com/sgharlow/living-docs/internal/core/config"
	"github.com/sgharlow/living-docs/internal/shared/observability"
)

const shutdownTimeout = 5 * time.Second

var (
	configPath = flag.String("config", "./livingdocs.toml", "Path to config file")
	snapshot   = flag.String("snapshot", "", "Path to analysis snapshot JSON (overrides config)")
	outDir     = flag.String("out", "", "Output directory (overrides config)")
	trace      = flag.Bool("trace", false, "Trace shortest import chain between two modules")
	serve      = flag.Bool("serve", false, "Keep running and expose /metrics and /health")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("livingdocs v%s\n", app.Version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./livingdocs.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *snapshot != "" {
		cfg.Project.Snapshot = *snapshot
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if cfg.Project.Snapshot == "" {
		fmt.Fprintln(os.Stderr, "no analysis snapshot given; set project.snapshot or pass -snapshot")
		os.Exit(1)
	}

	if *trace && flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "trace mode requires two module arguments: livingdocs -trace <from> <to>")
		os.Exit(1)
	}

	service, err := app.New(cfg, logger)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := service.Run(ctx, cfg.Project.Snapshot)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if *trace {
		chain, ok := result.Graph.FindImportChain(flag.Arg(0), flag.Arg(1))
		if !ok {
			fmt.Fprintf(os.Stderr, "no import chain from %s to %s\n", flag.Arg(0), flag.Arg(1))
			os.Exit(1)
		}
		for i, p := range chain {
			if i > 0 {
				fmt.Print(" -> ")
			}
			fmt.Print(p)
		}
		fmt.Println()
		os.Exit(0)
	}

	written, err := service.WriteOutputs(result)
	if err != nil {
		slog.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Println(path)
	}

	if *serve || cfg.Observability.Enabled {
		server := observability.NewServer(cfg.Observability.Address, service.Health)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			slog.Error("observability server shutdown failed", "error", err)
		}
	}
}
