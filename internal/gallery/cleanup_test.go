package gallery

import (
	"os"
	"path/filepath"
	"testing"

	"gallerysync/internal/logging"
)

func TestCleanStaleRemovesOnlyUnlistedImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"deck-keep-1.jpg", "deck-old-2.jpg", "notes.txt", ".hidden.jpg", "deck-upper-1.JPG"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	keep := map[string]struct{}{"deck-keep-1.jpg": {}}
	result := CleanStale(dir, keep, logging.NewNop())

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Removed) != 1 || filepath.Base(result.Removed[0]) != "deck-old-2.jpg" {
		t.Fatalf("expected only deck-old-2.jpg removed, got %v", result.Removed)
	}
	for _, name := range []string{"deck-keep-1.jpg", "notes.txt", ".hidden.jpg", "deck-upper-1.JPG", "nested.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to survive: %v", name, err)
		}
	}
}

func TestCleanStaleRemovesAbandonedWriteTemps(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"deck-porch-1.jpg", ".deck-porch-1.jpg.48213.tmp", ".notes.tmp", ".hidden.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	result := CleanStale(dir, map[string]struct{}{"deck-porch-1.jpg": {}}, logging.NewNop())

	if len(result.TempRemoved) != 1 || filepath.Base(result.TempRemoved[0]) != ".deck-porch-1.jpg.48213.tmp" {
		t.Fatalf("expected abandoned temp removed, got %v", result.TempRemoved)
	}
	if len(result.Removed) != 0 {
		t.Fatalf("expected no images removed, got %v", result.Removed)
	}
	for _, name := range []string{"deck-porch-1.jpg", ".notes.tmp", ".hidden.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to survive: %v", name, err)
		}
	}
}

func TestCleanStaleSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "outside.jpg")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	link := filepath.Join(dir, "deck-link-1.jpg")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	result := CleanStale(dir, nil, nil)
	if len(result.Removed) != 0 {
		t.Fatalf("expected symlink to be ignored, removed %v", result.Removed)
	}
	if _, err := os.Lstat(link); err != nil {
		t.Fatalf("symlink removed: %v", err)
	}
}

func TestCleanStaleMissingDirectory(t *testing.T) {
	result := CleanStale(filepath.Join(t.TempDir(), "absent"), nil, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
