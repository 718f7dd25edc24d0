package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./src/app.ts  ", expected: "src/app.ts"},
		{name: "Relative", input: "src/../lib/a.ts", expected: "lib/a.ts"},
		{name: "Backslashes", input: `src\utils\math.ts`, expected: "src/utils/math.ts"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestHasPathPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		prefix   string
		expected bool
	}{
		{name: "Exact", path: "src/app", prefix: "src/app", expected: true},
		{name: "Nested", path: "src/app/core", prefix: "src/app", expected: true},
		{name: "Neighbor", path: "src/approved", prefix: "src/app", expected: false},
		{name: "Shorter", path: "src", prefix: "src/app", expected: false},
		{name: "RelativePrefix", path: "./src/app/core", prefix: "src/app", expected: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasPathPrefix(tc.path, tc.prefix); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestStripExtension(t *testing.T) {
	t.Parallel()

	if got := StripExtension("src/Dog.ts"); got != "src/Dog" {
		t.Fatalf("expected src/Dog, got %q", got)
	}
	if got := StripExtension("Makefile"); got != "Makefile" {
		t.Fatalf("expected Makefile, got %q", got)
	}
	if got := StripExtension("a.test.ts"); got != "a.test" {
		t.Fatalf("expected a.test, got %q", got)
	}
}

func TestWriteStringWithDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "out", "report.md")
	if err := WriteStringWithDirs(target, "hello", 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}
}
