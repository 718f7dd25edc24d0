// Package config loads and validates the TOML project configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

type Config struct {
	Version       int           `toml:"version"`
	Project       Project       `toml:"project"`
	Output        Output        `toml:"output"`
	Diagrams      Diagrams      `toml:"diagrams"`
	Exclude       Exclude       `toml:"exclude"`
	Observability Observability `toml:"observability"`
}

type Project struct {
	Name     string `toml:"name"`
	Root     string `toml:"root"`
	Snapshot string `toml:"snapshot"` // analysis snapshot JSON path
}

type Output struct {
	Dir             string `toml:"dir"`
	ReportFile      string `toml:"report_file"`
	DiagramsDir     string `toml:"diagrams_dir"`
	TableOfContents bool   `toml:"table_of_contents"`
	EmbedDiagrams   bool   `toml:"embed_diagrams"`
}

type Diagrams struct {
	Direction       string `toml:"direction"`
	Theme           string `toml:"theme"`
	IncludeTests    bool   `toml:"include_tests"`
	IncludeExternal bool   `toml:"include_external"`
	MinWeight       int    `toml:"min_weight"`
	MaxDepth        int    `toml:"max_depth"`
	Focus           string `toml:"focus"`
}

type Exclude struct {
	Paths []string `toml:"paths"` // glob patterns matched against module paths
}

type Observability struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateProject(&cfg); err != nil {
		return nil, err
	}
	if err := validateDiagrams(&cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Project.Root) == "" {
		cfg.Project.Root = "src"
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = "docs"
	}
	if strings.TrimSpace(cfg.Output.ReportFile) == "" {
		cfg.Output.ReportFile = "architecture.md"
	}
	if strings.TrimSpace(cfg.Output.DiagramsDir) == "" {
		cfg.Output.DiagramsDir = "diagrams"
	}

	if strings.TrimSpace(cfg.Diagrams.Direction) == "" {
		cfg.Diagrams.Direction = "TD"
	}
	if cfg.Diagrams.MinWeight <= 0 {
		cfg.Diagrams.MinWeight = 1
	}
	if cfg.Diagrams.MaxDepth <= 0 {
		cfg.Diagrams.MaxDepth = 4
	}

	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9464"
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateProject(cfg *Config) error {
	if strings.TrimSpace(cfg.Project.Root) == "" {
		return fmt.Errorf("project.root must not be empty")
	}
	return nil
}

func validateDiagrams(cfg *Config) error {
	switch cfg.Diagrams.Direction {
	case "TD", "LR", "BT", "RL":
	default:
		return fmt.Errorf("diagrams.direction must be one of: TD, LR, BT, RL, got %q", cfg.Diagrams.Direction)
	}
	if cfg.Diagrams.MinWeight < 1 || cfg.Diagrams.MinWeight > 10 {
		return fmt.Errorf("diagrams.min_weight must be within [1,10], got %d", cfg.Diagrams.MinWeight)
	}
	if cfg.Diagrams.MaxDepth < 1 {
		return fmt.Errorf("diagrams.max_depth must be >= 1, got %d", cfg.Diagrams.MaxDepth)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Paths {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.paths[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("exclude.paths[%d]: invalid pattern %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Observability.Address) == "" {
		return fmt.Errorf("observability.address must not be empty when enabled")
	}
	return nil
}

// CompileExcludes compiles the exclude patterns. Patterns are validated at
// load time, so compilation failures here only happen for hand-built configs.
func (c *Config) CompileExcludes() ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(c.Exclude.Paths))
	for _, pattern := range c.Exclude.Paths {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
