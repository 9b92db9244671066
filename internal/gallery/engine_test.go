package gallery_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gallerysync/internal/catalog"
	"gallerysync/internal/fingerprint"
	"gallerysync/internal/gallery"
	"gallerysync/internal/logging"
	"gallerysync/internal/services"
	"gallerysync/internal/status"
	"gallerysync/internal/testsupport"
)

var testCategories = []string{"drywall", "deck", "electrical", "bathroom", "painting"}

type harness struct {
	source   *testsupport.FakeSource
	root     string
	recorder *status.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	base := t.TempDir()
	return &harness{
		source:   testsupport.NewFakeSource(),
		root:     filepath.Join(base, "gallery"),
		recorder: status.NewRecorder(filepath.Join(base, "gallery", "status.json")),
	}
}

func (h *harness) engine(source catalog.Source, opts gallery.Options) *gallery.Engine {
	reader := catalog.NewReader(source, testCategories, logging.NewNop(),
		catalog.WithRetryAttempts(2),
		catalog.WithRetryBackoff(0, 0),
		catalog.WithSleeper(func(time.Duration) {}),
	)
	if opts.RootID == "" {
		opts.RootID = "root"
	}
	if opts.GalleryRoot == "" {
		opts.GalleryRoot = h.root
	}
	return gallery.New(reader, h.recorder, opts, logging.NewNop())
}

func (h *harness) run(t *testing.T, opts gallery.Options) *gallery.Run {
	t.Helper()
	run, err := h.engine(h.source, opts).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return run
}

func (h *harness) path(category, name string) string {
	return filepath.Join(h.root, category, name)
}

func categoryResult(t *testing.T, run *gallery.Run, name string) gallery.CategoryResult {
	t.Helper()
	for _, c := range run.Categories {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("category %s missing from run: %+v", name, run.Categories)
	return gallery.CategoryResult{}
}

func TestRunWritesNormalizedImages(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	h.source.AddFile("f-deck", "a1", "Deck Railing Final.png", "image/png", testsupport.PNG(t, 2400, 1000, 40))
	h.source.AddFile("f-deck", "a2", "Stairs.jpg", "image/jpeg", testsupport.JPEG(t, 800, 600, 90))
	h.source.AddFile("f-deck", "a3", "quote-sheet.pdf", "application/pdf", []byte("%PDF"))

	run := h.run(t, gallery.Options{Prune: true})

	if run.ID == "" {
		t.Fatal("expected run id")
	}
	if got := run.FilesUpdated(); got != 2 {
		t.Fatalf("expected 2 files updated, got %d", got)
	}

	wide := testsupport.ReadFile(t, h.path("deck", "deck-deckrailingfinal-1.jpg"))
	if w, hgt := testsupport.ImageSize(t, wide); w != 1200 || hgt != 500 {
		t.Fatalf("expected 1200x500, got %dx%d", w, hgt)
	}
	narrow := testsupport.ReadFile(t, h.path("deck", "deck-stairs-2.jpg"))
	if w, hgt := testsupport.ImageSize(t, narrow); w != 800 || hgt != 600 {
		t.Fatalf("expected 800x600, got %dx%d", w, hgt)
	}
	if _, err := os.Stat(h.path("deck", "deck-quote-sheet-3.jpg")); !os.IsNotExist(err) {
		t.Fatalf("expected pdf to be ignored, stat err=%v", err)
	}

	doc, ok, err := h.recorder.Load()
	if err != nil || !ok {
		t.Fatalf("load status: ok=%v err=%v", ok, err)
	}
	if doc.CategoriesSynced != 1 || doc.FilesUpdated != 2 || doc.ForceSync {
		t.Fatalf("unexpected status document: %+v", doc)
	}
	if doc.RunID != run.ID {
		t.Fatalf("expected run id %s in status, got %s", run.ID, doc.RunID)
	}
	if doc.Categories["deck"].Updated != 2 {
		t.Fatalf("expected per-category counts, got %+v", doc.Categories)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-paint", "Painting")
	h.source.AddFile("f-paint", "p1", "Living Room.jpg", "image/jpeg", testsupport.JPEG(t, 1600, 900, 120))

	h.run(t, gallery.Options{Prune: true})
	target := h.path("painting", "painting-livingroom-1.jpg")
	before, err := fingerprint.File(target)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(target, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	run := h.run(t, gallery.Options{Prune: true})
	if got := run.FilesUpdated(); got != 0 {
		t.Fatalf("expected no updates on second run, got %d", got)
	}
	if got := categoryResult(t, run, "painting").Unchanged; got != 1 {
		t.Fatalf("expected 1 unchanged, got %d", got)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(old) {
		t.Fatalf("expected file untouched, mtime changed to %v", info.ModTime())
	}
	after, _ := fingerprint.File(target)
	if before != after {
		t.Fatalf("content changed: %s -> %s", before, after)
	}
}

func TestRunRewritesChangedContent(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-bath", "Bathroom")
	h.source.AddFile("f-bath", "b1", "Vanity.jpg", "image/jpeg", testsupport.JPEG(t, 300, 200, 10))
	h.run(t, gallery.Options{Prune: true})

	h.source.SetContent("b1", testsupport.JPEG(t, 300, 200, 200))
	run := h.run(t, gallery.Options{Prune: true})
	if got := run.FilesUpdated(); got != 1 {
		t.Fatalf("expected changed image to be rewritten, got %d updates", got)
	}
}

func TestRunForceRewritesEverything(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-elec", "Electrical")
	h.source.AddFile("f-elec", "e1", "Panel.jpg", "image/jpeg", testsupport.JPEG(t, 300, 200, 10))
	h.source.AddFile("f-elec", "e2", "Outlet.jpg", "image/jpeg", testsupport.JPEG(t, 300, 200, 60))
	h.run(t, gallery.Options{Prune: true})

	run := h.run(t, gallery.Options{Prune: true, Force: true})
	if got := run.FilesUpdated(); got != 2 {
		t.Fatalf("expected force to rewrite 2 files, got %d", got)
	}
	doc, _, err := h.recorder.Load()
	if err != nil {
		t.Fatalf("load status: %v", err)
	}
	if !doc.ForceSync {
		t.Fatal("expected force_sync recorded")
	}
}

func TestRunRemovesStaleImages(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	h.source.AddFile("f-deck", "a1", "New Boards.jpg", "image/jpeg", testsupport.JPEG(t, 100, 100, 30))
	testsupport.WriteFile(t, h.path("deck", "deck-old-1.jpg"), []byte("stale"))
	testsupport.WriteFile(t, h.path("deck", "README.txt"), []byte("keep"))

	run := h.run(t, gallery.Options{Prune: true})

	if _, err := os.Stat(h.path("deck", "deck-old-1.jpg")); !os.IsNotExist(err) {
		t.Fatalf("expected stale image removed, stat err=%v", err)
	}
	if _, err := os.Stat(h.path("deck", "README.txt")); err != nil {
		t.Fatalf("expected non-image file kept: %v", err)
	}
	if got := categoryResult(t, run, "deck").Removed; got != 1 {
		t.Fatalf("expected 1 removal, got %d", got)
	}
}

func TestRunWithoutPruneKeepsStaleImages(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	testsupport.WriteFile(t, h.path("deck", "deck-old-1.jpg"), []byte("stale"))

	h.run(t, gallery.Options{Prune: false})
	if _, err := os.Stat(h.path("deck", "deck-old-1.jpg")); err != nil {
		t.Fatalf("expected stale image kept without prune: %v", err)
	}
}

func TestRunIgnoresUnknownFolders(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-misc", "Misc")
	h.source.AddFile("f-misc", "m1", "Random.jpg", "image/jpeg", testsupport.JPEG(t, 50, 50, 1))
	h.source.AddFolder("root", "f-dry", "drywall")

	run := h.run(t, gallery.Options{Prune: true})
	if run.CategoriesFound != 1 {
		t.Fatalf("expected 1 category, got %d", run.CategoriesFound)
	}
	if _, err := os.Stat(filepath.Join(h.root, "misc")); !os.IsNotExist(err) {
		t.Fatalf("expected no misc directory, stat err=%v", err)
	}
	if h.source.Calls("f-misc") != 0 {
		t.Fatal("expected unknown folder never listed")
	}
}

func TestRunListingFailureSkipsCategoryWithoutCleanup(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	h.source.AddFolder("root", "f-paint", "Painting")
	h.source.AddFile("f-paint", "p1", "Wall.jpg", "image/jpeg", testsupport.JPEG(t, 60, 40, 5))
	h.source.FailAlways("f-deck", services.Wrap(services.ErrTransient, "fake", "list", "backend unavailable", nil))
	testsupport.WriteFile(t, h.path("deck", "deck-old-1.jpg"), []byte("stale"))

	run := h.run(t, gallery.Options{Prune: true})

	deck := categoryResult(t, run, "deck")
	if !deck.Skipped || deck.Err == nil {
		t.Fatalf("expected deck skipped with error, got %+v", deck)
	}
	if _, err := os.Stat(h.path("deck", "deck-old-1.jpg")); err != nil {
		t.Fatalf("expected existing image kept after listing failure: %v", err)
	}
	if categoryResult(t, run, "painting").Updated != 1 {
		t.Fatal("expected painting to sync despite deck failure")
	}
	doc, ok, err := h.recorder.Load()
	if err != nil || !ok {
		t.Fatalf("expected status recorded: ok=%v err=%v", ok, err)
	}
	if !doc.Categories["deck"].Skipped {
		t.Fatalf("expected skipped flag in status, got %+v", doc.Categories["deck"])
	}
}

func TestRunFetchFailureKeepsExistingFile(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	h.source.AddFile("f-deck", "a1", "Porch.jpg", "image/jpeg", testsupport.JPEG(t, 100, 80, 70))
	h.source.AddFile("f-deck", "a2", "Steps.jpg", "image/jpeg", testsupport.JPEG(t, 100, 80, 140))
	h.run(t, gallery.Options{Prune: true})

	h.source.FailAlways("a1", services.Wrap(services.ErrNotFound, "fake", "download", "gone", nil))
	run := h.run(t, gallery.Options{Prune: true, Force: true})

	deck := categoryResult(t, run, "deck")
	if deck.Failed != 1 || deck.Updated != 1 || deck.Removed != 0 {
		t.Fatalf("unexpected counts: %+v", deck)
	}
	if _, err := os.Stat(h.path("deck", "deck-porch-1.jpg")); err != nil {
		t.Fatalf("expected previous copy kept after fetch failure: %v", err)
	}
}

func TestRunRetriesTransientDownloads(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	h.source.AddFile("f-deck", "a1", "Porch.jpg", "image/jpeg", testsupport.JPEG(t, 100, 80, 70))
	h.source.FailTimes("a1", 1)

	run := h.run(t, gallery.Options{Prune: true})
	if run.FilesUpdated() != 1 {
		t.Fatalf("expected retry to succeed, got %+v", run.Categories)
	}
	if got := h.source.Calls("a1"); got != 2 {
		t.Fatalf("expected 2 download attempts, got %d", got)
	}
}

func TestRunStoresUndecodableBytes(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	raw := []byte("not really a jpeg")
	h.source.AddFile("f-deck", "a1", "Broken.jpg", "image/jpeg", raw)

	h.run(t, gallery.Options{Prune: true})
	got := testsupport.ReadFile(t, h.path("deck", "deck-broken-1.jpg"))
	if string(got) != string(raw) {
		t.Fatalf("expected original bytes stored, got %q", got)
	}
}

type cancellingSource struct {
	*testsupport.FakeSource
	cancel context.CancelFunc
}

func (c cancellingSource) Download(ctx context.Context, id string) ([]byte, error) {
	data, err := c.FakeSource.Download(ctx, id)
	c.cancel()
	return data, err
}

func TestRunCancellationLeavesStatusUntouched(t *testing.T) {
	h := newHarness(t)
	h.source.AddFolder("root", "f-deck", "Deck")
	h.source.AddFile("f-deck", "a1", "A.jpg", "image/jpeg", testsupport.JPEG(t, 40, 40, 10))
	h.source.AddFile("f-deck", "a2", "B.jpg", "image/jpeg", testsupport.JPEG(t, 40, 40, 20))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine := h.engine(cancellingSource{FakeSource: h.source, cancel: cancel}, gallery.Options{Prune: true})

	_, err := engine.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h.source.Calls("a2") != 0 {
		t.Fatal("expected no work after cancellation")
	}
	if _, ok, _ := h.recorder.Load(); ok {
		t.Fatal("expected no status document after cancellation")
	}
}

func TestRunRequiresRootFolderID(t *testing.T) {
	h := newHarness(t)
	reader := catalog.NewReader(h.source, testCategories, logging.NewNop())
	engine := gallery.New(reader, h.recorder, gallery.Options{GalleryRoot: h.root}, logging.NewNop())

	_, err := engine.Run(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunAuthenticationFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.source.FailAlways("root", services.Wrap(services.ErrAuthentication, "fake", "list", "invalid credentials", nil))

	_, err := h.engine(h.source, gallery.Options{}).Run(context.Background())
	if !errors.Is(err, services.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatal("expected fatal classification")
	}
	if _, ok, _ := h.recorder.Load(); ok {
		t.Fatal("expected no status document after fatal failure")
	}
}

func TestRunWithNoCategoriesStillRecordsStatus(t *testing.T) {
	h := newHarness(t)

	run := h.run(t, gallery.Options{})
	if run.CategoriesFound != 0 || run.FilesUpdated() != 0 {
		t.Fatalf("unexpected run: %+v", run)
	}
	doc, ok, err := h.recorder.Load()
	if err != nil || !ok {
		t.Fatalf("expected status recorded: ok=%v err=%v", ok, err)
	}
	if doc.LastSync.IsZero() {
		t.Fatal("expected last_sync timestamp")
	}
}

type failingRecorder struct{}

func (failingRecorder) Record(status.Document) error { return errors.New("disk full") }

func TestRunReturnsStatusWriteFailure(t *testing.T) {
	h := newHarness(t)
	reader := catalog.NewReader(h.source, testCategories, logging.NewNop())
	engine := gallery.New(reader, failingRecorder{}, gallery.Options{RootID: "root", GalleryRoot: h.root}, logging.NewNop())

	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatal("expected status write failure to be returned")
	}
}
