package status_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gallerysync/internal/status"
)

func TestRecordWritesStableKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery", "sync-status.json")
	recorder := status.NewRecorder(path)
	when := time.Date(2024, 5, 1, 10, 30, 15, 999, time.FixedZone("EST", -5*3600))

	err := recorder.Record(status.Document{
		LastSync:         when,
		CategoriesSynced: 2,
		FilesUpdated:     3,
		ForceSync:        true,
		RunID:            "run-1",
		Categories: map[string]status.CategoryCounts{
			"deck": {Updated: 3, Removed: 1},
		},
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if payload["last_sync"] != "2024-05-01T15:30:15Z" {
		t.Fatalf("unexpected last_sync: %v", payload["last_sync"])
	}
	if payload["categories_synced"] != float64(2) || payload["files_updated"] != float64(3) || payload["force_sync"] != true {
		t.Fatalf("unexpected summary fields: %v", payload)
	}
}

func TestRecordOverwritesAndLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync-status.json")
	recorder := status.NewRecorder(path)

	if err := recorder.Record(status.Document{FilesUpdated: 5}); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := recorder.Record(status.Document{FilesUpdated: 0, CategoriesSynced: 1}); err != nil {
		t.Fatalf("second Record: %v", err)
	}

	doc, found, err := recorder.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !found {
		t.Fatal("expected document to be found")
	}
	if doc.FilesUpdated != 0 || doc.CategoriesSynced != 1 {
		t.Fatalf("expected second document, got %+v", doc)
	}
}

func TestLoadMissingIsNeverSynced(t *testing.T) {
	recorder := status.NewRecorder(filepath.Join(t.TempDir(), "sync-status.json"))
	_, found, err := recorder.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Fatal("expected missing document to report not found")
	}
}

func TestRecordFailsWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sync-status.json")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := status.NewRecorder(target).Record(status.Document{}); err == nil {
		t.Fatal("expected write failure")
	}
}
