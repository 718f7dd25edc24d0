// Package analysis defines the language-agnostic per-file analysis records
// consumed by the dependency graph engine. They are produced by the external
// source parsers; this engine never reads source code itself.
package analysis

import "sort"

type FunctionInfo struct {
	Name     string `json:"name"`
	Exported bool   `json:"exported"`
	IsAsync  bool   `json:"is_async,omitempty"`
}

type ClassInfo struct {
	Name       string   `json:"name"`
	Extends    string   `json:"extends,omitempty"`
	Implements []string `json:"implements,omitempty"`
	Exported   bool     `json:"exported"`
}

type InterfaceInfo struct {
	Name     string   `json:"name"`
	Extends  []string `json:"extends,omitempty"`
	Exported bool     `json:"exported"`
}

type ImportInfo struct {
	// Source is the import specifier as written: "./Animal", "src/utils/math",
	// or a bare package name for third-party imports.
	Source  string   `json:"source"`
	Symbols []string `json:"symbols,omitempty"`
	Default bool     `json:"default,omitempty"`
}

type FileAnalysis struct {
	Language   string          `json:"language,omitempty"`
	Functions  []FunctionInfo  `json:"functions,omitempty"`
	Classes    []ClassInfo     `json:"classes,omitempty"`
	Interfaces []InterfaceInfo `json:"interfaces,omitempty"`
	Imports    []ImportInfo    `json:"imports,omitempty"`
	Exports    []string        `json:"exports,omitempty"`
}

// Snapshot is one complete analysis run: every analyzed file keyed by path.
// The engine rebuilds its graph from scratch on every snapshot; there is no
// partial update.
type Snapshot struct {
	ProjectName string                   `json:"project_name,omitempty"`
	ProjectRoot string                   `json:"project_root,omitempty"`
	Files       map[string]*FileAnalysis `json:"files"`
}

// Languages returns the distinct languages present in the snapshot, sorted.
func (s *Snapshot) Languages() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, file := range s.Files {
		if file != nil && file.Language != "" {
			seen[file.Language] = true
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
