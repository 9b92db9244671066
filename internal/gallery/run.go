package gallery

import (
	"time"

	"gallerysync/internal/status"
)

// CategoryResult counts what happened to one category during a run.
type CategoryResult struct {
	Name      string
	Updated   int
	Unchanged int
	Failed    int
	Removed   int
	// Skipped is set when the category could not be listed or its directory
	// could not be created. Cleanup never runs for skipped categories.
	Skipped bool
	Err     error
}

// Run is the aggregate of one sync invocation.
type Run struct {
	ID              string
	Started         time.Time
	Finished        time.Time
	Force           bool
	CategoriesFound int
	Categories      []CategoryResult
}

// FilesUpdated totals written images across categories.
func (r *Run) FilesUpdated() int {
	total := 0
	for _, c := range r.Categories {
		total += c.Updated
	}
	return total
}

// totals returns unchanged, failed and removed counts across categories.
func (r *Run) totals() (unchanged, failed, removed int) {
	for _, c := range r.Categories {
		unchanged += c.Unchanged
		failed += c.Failed
		removed += c.Removed
	}
	return unchanged, failed, removed
}

// Document converts the run into the persisted status document.
func (r *Run) Document() status.Document {
	doc := status.Document{
		LastSync:         r.Finished,
		CategoriesSynced: r.CategoriesFound,
		FilesUpdated:     r.FilesUpdated(),
		ForceSync:        r.Force,
		RunID:            r.ID,
	}
	if len(r.Categories) > 0 {
		doc.Categories = make(map[string]status.CategoryCounts, len(r.Categories))
		for _, c := range r.Categories {
			doc.Categories[c.Name] = status.CategoryCounts{
				Updated:   c.Updated,
				Unchanged: c.Unchanged,
				Failed:    c.Failed,
				Removed:   c.Removed,
				Skipped:   c.Skipped,
			}
		}
	}
	return doc
}
