package analysis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sgharlow/living-docs/internal/core/errors"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analysis.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSnapshotFullDocument(t *testing.T) {
	path := writeSnapshot(t, `{
		"project_name": "demo",
		"project_root": "src/",
		"files": {
			"src\\index.ts": {"language": "typescript", "exports": ["main"]}
		}
	}`)

	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snapshot.ProjectName != "demo" {
		t.Errorf("ProjectName = %q", snapshot.ProjectName)
	}
	if snapshot.ProjectRoot != "src" {
		t.Errorf("ProjectRoot = %q, want normalized root", snapshot.ProjectRoot)
	}
	// Backslash keys normalize to forward slashes.
	if _, ok := snapshot.Files["src/index.ts"]; !ok {
		t.Fatalf("normalized key missing, files = %v", snapshot.Files)
	}
}

func TestLoadSnapshotBareMap(t *testing.T) {
	path := writeSnapshot(t, `{
		"src/a.ts": {"language": "typescript"},
		"src/b.ts": {"language": "javascript"}
	}`)

	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(snapshot.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(snapshot.Files))
	}
	if got, want := snapshot.Languages(), []string{"javascript", "typescript"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Languages() = %v, want %v", got, want)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("error code = %v, want NOT_FOUND", err)
	}
}

func TestLoadSnapshotInvalidJSON(t *testing.T) {
	path := writeSnapshot(t, `not json`)

	_, err := LoadSnapshot(path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("error code = %v, want VALIDATION_ERROR", err)
	}
}

func TestLoadSnapshotDropsNilRecords(t *testing.T) {
	path := writeSnapshot(t, `{"files": {"src/a.ts": null, "src/b.ts": {}}}`)

	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(snapshot.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(snapshot.Files))
	}
}
