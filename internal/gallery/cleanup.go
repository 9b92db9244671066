package gallery

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gallerysync/internal/logging"
)

// CleanStaleResult contains the outcome of a stale image cleanup.
type CleanStaleResult struct {
	Removed []string
	// TempRemoved lists temp files abandoned by an interrupted atomic write.
	TempRemoved []string
	Errors      []CleanupError
}

// CleanupError pairs a file path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes every regular *.jpg file in dir whose name is not in
// keep. Matching is by exact file name. Temp files left behind by an
// interrupted atomic image write (".{name}.jpg.*.tmp") are removed as well.
// Other hidden files, directories, symlinks and other extensions are never
// touched. Removal failures are collected and logged; they never stop the
// sweep. Callers must hold the gallery lock so no write is in flight.
func CleanStale(dir string, keep map[string]struct{}, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if isWriteLeftover(name) {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
				continue
			}
			result.TempRemoved = append(result.TempRemoved, path)
			if logger != nil {
				logger.Debug("removed abandoned temp file", logging.String("filename", name))
			}
			continue
		}
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != imageExt {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}

		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale gallery image", "stale_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check gallery directory permissions"),
				logging.String(logging.FieldImpact, "image no longer in Drive remains on the site"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale gallery image",
				logging.String("filename", name),
				logging.String(logging.FieldEventType, "stale_image_removed"),
			)
		}
	}
	return result
}

// isWriteLeftover matches the temp names fileutil.WriteAtomic uses for gallery
// images.
func isWriteLeftover(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp") && strings.Contains(name, imageExt+".")
}
