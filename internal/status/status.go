// Package status persists the machine-readable summary of the last sync run.
package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gallerysync/internal/fileutil"
)

// CategoryCounts summarizes one category of a run.
type CategoryCounts struct {
	Updated   int  `json:"updated"`
	Unchanged int  `json:"unchanged"`
	Failed    int  `json:"failed"`
	Removed   int  `json:"removed"`
	Skipped   bool `json:"skipped,omitempty"`
}

// Document is the on-disk status document. The first four fields are read by
// the site build and must keep their names.
type Document struct {
	LastSync         time.Time                 `json:"last_sync"`
	CategoriesSynced int                       `json:"categories_synced"`
	FilesUpdated     int                       `json:"files_updated"`
	ForceSync        bool                      `json:"force_sync"`
	RunID            string                    `json:"run_id,omitempty"`
	Categories       map[string]CategoryCounts `json:"categories,omitempty"`
}

// Recorder writes and reads the status document at a fixed path.
type Recorder struct {
	path string
}

// NewRecorder returns a recorder for path.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Path returns the document location.
func (r *Recorder) Path() string {
	return r.path
}

// Record replaces the status document with doc.
func (r *Recorder) Record(doc Document) error {
	doc.LastSync = doc.LastSync.UTC().Truncate(time.Second)
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("status: encode: %w", err)
	}
	payload = append(payload, '\n')
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("status: ensure dir: %w", err)
	}
	if err := fileutil.WriteAtomic(r.path, payload, 0o644); err != nil {
		return fmt.Errorf("status: write %s: %w", r.path, err)
	}
	return nil
}

// Load reads the status document. The boolean is false when no sync has been
// recorded yet.
func (r *Recorder) Load() (Document, bool, error) {
	var doc Document
	payload, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, false, nil
		}
		return doc, false, fmt.Errorf("status: read %s: %w", r.path, err)
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return doc, false, fmt.Errorf("status: decode %s: %w", r.path, err)
	}
	return doc, true, nil
}
