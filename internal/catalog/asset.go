package catalog

import (
	"context"
	"slices"
	"strings"
	"time"
)

// Accepted image MIME types. "image/jpg" is not registered but some uploaders
// send it anyway.
var acceptedMIMETypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// AcceptedMIMETypes returns the MIME types that are synced into the gallery.
func AcceptedMIMETypes() []string {
	return slices.Clone(acceptedMIMETypes)
}

// IsAcceptedMIME reports whether mimeType names a gallery image type.
func IsAcceptedMIME(mimeType string) bool {
	return slices.Contains(acceptedMIMETypes, strings.ToLower(strings.TrimSpace(mimeType)))
}

// Folder is a direct child folder of the catalog root.
type Folder struct {
	ID   string
	Name string
}

// RemoteAsset describes an image file in a remote category folder. Assets are
// discovered fresh on every run and never cached.
type RemoteAsset struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime time.Time
	Size         int64
}

// Source is the raw remote store. Implementations classify failures with the
// services error markers so the Reader can decide what to retry. Pagination is
// handled inside the implementation.
type Source interface {
	ListFolders(ctx context.Context, parentID string) ([]Folder, error)
	ListFiles(ctx context.Context, folderID string, mimeTypes []string) ([]RemoteAsset, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// SortAssets orders assets by display name ignoring case, then by exact name,
// then by id, so listings are deterministic across runs.
func SortAssets(assets []RemoteAsset) {
	slices.SortStableFunc(assets, func(a, b RemoteAsset) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
