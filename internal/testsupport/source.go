package testsupport

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"gallerysync/internal/catalog"
	"gallerysync/internal/services"
)

// FakeSource is an in-memory catalog.Source. Failures can be scripted per
// folder or file id.
type FakeSource struct {
	mu       sync.Mutex
	folders  map[string][]catalog.Folder
	files    map[string][]catalog.RemoteAsset
	content  map[string][]byte
	errs     map[string]error
	failures map[string]int
	calls    map[string]int
}

// NewFakeSource returns an empty source.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		folders:  make(map[string][]catalog.Folder),
		files:    make(map[string][]catalog.RemoteAsset),
		content:  make(map[string][]byte),
		errs:     make(map[string]error),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
}

// AddFolder registers a child folder under parentID.
func (f *FakeSource) AddFolder(parentID, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders[parentID] = append(f.folders[parentID], catalog.Folder{ID: id, Name: name})
}

// AddFile registers a file inside folderID with the given content.
func (f *FakeSource) AddFile(folderID, id, name, mimeType string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[folderID] = append(f.files[folderID], catalog.RemoteAsset{
		ID:           id,
		Name:         name,
		MimeType:     mimeType,
		ModifiedTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Size:         int64(len(data)),
	})
	f.content[id] = data
}

// SetContent replaces the bytes served for a file id.
func (f *FakeSource) SetContent(id string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content[id] = data
}

// RemoveFile drops a file from every folder listing.
func (f *FakeSource) RemoveFile(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for folder, files := range f.files {
		f.files[folder] = slices.DeleteFunc(files, func(a catalog.RemoteAsset) bool { return a.ID == id })
	}
	delete(f.content, id)
}

// FailAlways makes every call touching id return err.
func (f *FakeSource) FailAlways(id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[id] = err
}

// FailTimes makes the next n calls touching id return a transient error.
func (f *FakeSource) FailTimes(id string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = n
}

// Calls returns how many times id was requested.
func (f *FakeSource) Calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func (f *FakeSource) check(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.calls[id]++
	if err, ok := f.errs[id]; ok {
		return err
	}
	if f.failures[id] > 0 {
		f.failures[id]--
		return services.Wrap(services.ErrTransient, "fake", "request", fmt.Sprintf("scripted failure for %s", id), nil)
	}
	return nil
}

func (f *FakeSource) ListFolders(ctx context.Context, parentID string) ([]catalog.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, parentID); err != nil {
		return nil, err
	}
	return slices.Clone(f.folders[parentID]), nil
}

func (f *FakeSource) ListFiles(ctx context.Context, folderID string, _ []string) ([]catalog.RemoteAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, folderID); err != nil {
		return nil, err
	}
	return slices.Clone(f.files[folderID]), nil
}

func (f *FakeSource) Download(ctx context.Context, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, fileID); err != nil {
		return nil, err
	}
	data, ok := f.content[fileID]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "fake", "download", fileID, nil)
	}
	return slices.Clone(data), nil
}
