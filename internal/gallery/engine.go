package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gallerysync/internal/catalog"
	"gallerysync/internal/fileutil"
	"gallerysync/internal/fingerprint"
	"gallerysync/internal/imagenorm"
	"gallerysync/internal/logging"
	"gallerysync/internal/services"
	"gallerysync/internal/status"
)

const (
	stageInit     = "init"
	stageListing  = "listing"
	stageCategory = "category"
	stageDone     = "done"
)

// CatalogReader is the remote side of a sync. *catalog.Reader satisfies it.
type CatalogReader interface {
	ListCategories(ctx context.Context, rootID string) (map[string]string, error)
	ListAssets(ctx context.Context, folderID string) ([]catalog.RemoteAsset, error)
	Fetch(ctx context.Context, asset catalog.RemoteAsset) ([]byte, error)
}

// Recorder persists the run summary. *status.Recorder satisfies it.
type Recorder interface {
	Record(doc status.Document) error
}

// Options controls a sync run.
type Options struct {
	RootID      string
	GalleryRoot string
	// Force rewrites every image even when its content is unchanged.
	Force bool
	// Prune removes local images that no longer exist remotely.
	Prune     bool
	Normalize imagenorm.Options
}

// Engine mirrors remote category folders into the flattened local gallery.
// It is the only component that writes or removes gallery images.
type Engine struct {
	reader   CatalogReader
	recorder Recorder
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs an Engine.
func New(reader CatalogReader, recorder Recorder, opts Options, logger *slog.Logger) *Engine {
	return &Engine{
		reader:   reader,
		recorder: recorder,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "gallery"),
		now:      time.Now,
	}
}

// Run performs one sync pass. Fatal problems (missing root folder id,
// authentication failure, status write failure) are returned as errors;
// category and asset failures are logged and counted. When ctx is cancelled
// the run stops before the next asset, already written files remain, and the
// status document is left untouched.
func (e *Engine) Run(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:      uuid.NewString(),
		Started: e.now(),
		Force:   e.opts.Force,
	}
	ctx = services.WithRunID(ctx, run.ID)
	logger := logging.WithContext(services.WithStage(ctx, stageInit), e.logger)

	if strings.TrimSpace(e.opts.RootID) == "" {
		return run, services.Wrap(services.ErrConfiguration, "gallery", "init", "root folder id is empty (set GOOGLE_DRIVE_FOLDER_ID)", nil)
	}
	if strings.TrimSpace(e.opts.GalleryRoot) == "" {
		return run, services.Wrap(services.ErrConfiguration, "gallery", "init", "gallery root is empty", nil)
	}
	logger.Info("gallery sync started",
		logging.String(logging.FieldEventType, "sync_started"),
		logging.Bool("force", e.opts.Force),
		logging.String("gallery_dir", e.opts.GalleryRoot),
	)

	found, err := e.reader.ListCategories(services.WithStage(ctx, stageListing), e.opts.RootID)
	if err != nil {
		if ctx.Err() != nil {
			return run, ctx.Err()
		}
		return run, fmt.Errorf("list categories: %w", err)
	}
	categories := catalog.Sorted(found)
	run.CategoriesFound = len(categories)
	if len(categories) == 0 {
		logging.WarnWithContext(logger, "no category folders found", "no_categories",
			logging.String(logging.FieldErrorHint, "create folders named after the gallery categories in the Drive root"),
			logging.String(logging.FieldImpact, "nothing was synced"),
		)
	}

	for _, category := range categories {
		result, err := e.syncCategory(ctx, category)
		run.Categories = append(run.Categories, result)
		if err != nil {
			return run, err
		}
	}

	run.Finished = e.now()
	if err := e.recorder.Record(run.Document()); err != nil {
		return run, fmt.Errorf("record sync status: %w", err)
	}

	unchanged, failed, removed := run.totals()
	logging.WithContext(services.WithStage(ctx, stageDone), e.logger).Info("gallery sync complete",
		logging.String(logging.FieldEventType, "sync_complete"),
		logging.Int("categories_synced", run.CategoriesFound),
		logging.Int("files_updated", run.FilesUpdated()),
		logging.Int("unchanged", unchanged),
		logging.Int("failed", failed),
		logging.Int("removed", removed),
		logging.Duration("duration", run.Finished.Sub(run.Started)),
	)
	return run, nil
}

// syncCategory processes one category. The only error it returns is
// cancellation; everything else is recorded in the result.
func (e *Engine) syncCategory(ctx context.Context, category catalog.Category) (CategoryResult, error) {
	result := CategoryResult{Name: category.Name}
	ctx = services.WithCategory(services.WithStage(ctx, stageCategory), category.Name)
	logger := logging.WithContext(ctx, e.logger)

	dir := filepath.Join(e.opts.GalleryRoot, category.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Skipped = true
		result.Err = err
		logging.ErrorWithContext(logger, "cannot create category directory", "category_dir_failed",
			logging.String("category_dir", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check gallery root permissions"),
		)
		return result, nil
	}

	assets, err := e.reader.ListAssets(ctx, category.FolderID)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Skipped = true
		result.Err = err
		return result, nil
	}
	logger.Info("syncing category",
		logging.String(logging.FieldEventType, "category_started"),
		logging.Int("assets", len(assets)),
	)

	keep := make(map[string]struct{}, len(assets))
	for i, asset := range assets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		filename := FileName(category.Name, asset.Name, i+1)
		// Keep the name even if this fetch fails: the asset still exists remotely.
		keep[filename] = struct{}{}

		assetLogger := logger.With(
			logging.String(logging.FieldAsset, asset.Name),
			logging.String(logging.FieldAssetID, asset.ID),
		)
		written, err := e.syncAsset(ctx, asset, filepath.Join(dir, filename), assetLogger)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed++
		case written:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	if e.opts.Prune {
		cleaned := CleanStale(dir, keep, logger)
		result.Removed = len(cleaned.Removed)
	}

	logger.Info("category synced",
		logging.String(logging.FieldEventType, "category_complete"),
		logging.Int("updated", result.Updated),
		logging.Int("unchanged", result.Unchanged),
		logging.Int("failed", result.Failed),
		logging.Int("removed", result.Removed),
	)
	return result, nil
}

// syncAsset fetches, normalizes and writes one image. It reports whether the
// file on disk was replaced.
func (e *Engine) syncAsset(ctx context.Context, asset catalog.RemoteAsset, target string, logger *slog.Logger) (bool, error) {
	raw, err := e.reader.Fetch(ctx, asset)
	if err != nil {
		if ctx.Err() == nil {
			logging.WarnWithContext(logger, "download failed; asset skipped", "asset_fetch_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the file is still shared and readable in Drive"),
				logging.String(logging.FieldImpact, "existing local copy, if any, was kept"),
			)
		}
		return false, err
	}

	normalized := imagenorm.Normalize(raw, e.opts.Normalize)
	if normalized.Fallback != nil {
		logging.WarnWithContext(logger, "image normalization failed; storing original bytes", "image_normalize_fallback",
			logging.Error(normalized.Fallback),
			logging.String("mime_type", asset.MimeType),
			logging.String(logging.FieldImpact, "image stored without resizing or re-encoding"),
		)
	}

	filename := filepath.Base(target)
	if !e.opts.Force {
		candidate := fingerprint.Bytes(normalized.Data)
		if existing, err := fingerprint.File(target); err == nil && existing == candidate {
			logger.Debug("image unchanged", logging.String("filename", filename), logging.String("fingerprint", string(candidate)))
			return false, nil
		}
	}

	if err := fileutil.WriteAtomic(target, normalized.Data, 0o644); err != nil {
		logging.WarnWithContext(logger, "write failed; asset skipped", "asset_write_failed",
			logging.String("filename", filename),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and gallery directory permissions"),
		)
		return false, err
	}
	logger.Info("image written",
		logging.String("filename", filename),
		logging.String(logging.FieldEventType, "image_written"),
		logging.Int64("size_bytes", int64(len(normalized.Data))),
		logging.Bool("resized", normalized.Resized),
	)
	return true, nil
}
