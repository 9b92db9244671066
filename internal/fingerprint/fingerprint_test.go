package fingerprint_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"gallerysync/internal/fingerprint"
)

func TestBytesMatchesFile(t *testing.T) {
	// Larger than one chunk so the streaming path crosses buffer boundaries.
	data := bytes.Repeat([]byte("gallery-image-"), 20000)
	path := filepath.Join(t.TempDir(), "image.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	fromFile, err := fingerprint.File(path)
	if err != nil {
		t.Fatalf("File returned error: %v", err)
	}
	if fromBytes := fingerprint.Bytes(data); fromBytes != fromFile {
		t.Fatalf("digest mismatch: bytes=%s file=%s", fromBytes, fromFile)
	}
	if len(fromFile) != 16 {
		t.Fatalf("expected 16 hex characters, got %q", fromFile)
	}
}

func TestBytesDistinguishesContent(t *testing.T) {
	a := fingerprint.Bytes([]byte("deck-1"))
	b := fingerprint.Bytes([]byte("deck-2"))
	if a == b {
		t.Fatal("expected distinct digests for distinct content")
	}
	if a != fingerprint.Bytes([]byte("deck-1")) {
		t.Fatal("expected deterministic digest")
	}
	if fingerprint.Bytes(nil) != fingerprint.Bytes([]byte{}) {
		t.Fatal("expected nil and empty input to hash identically")
	}
}

func TestManyFixturesHaveDistinctDigests(t *testing.T) {
	seen := make(map[fingerprint.Digest]string)
	record := func(label string, data []byte) {
		t.Helper()
		digest := fingerprint.Bytes(data)
		if prev, ok := seen[digest]; ok {
			t.Fatalf("digest %s repeated for %s and %s", digest, prev, label)
		}
		seen[digest] = label
	}

	// Every length of a zero buffer.
	for n := 0; n < 256; n++ {
		record(fmt.Sprintf("zeros/%d", n), make([]byte, n))
	}
	// Every single-bit flip of one base buffer.
	base := bytes.Repeat([]byte("deck-railing-final"), 4)
	record("base", base)
	for i := range len(base) * 8 {
		flipped := bytes.Clone(base)
		flipped[i/8] ^= 1 << (i % 8)
		record(fmt.Sprintf("flip/%d", i), flipped)
	}

	if len(seen) != 256+1+len(base)*8 {
		t.Fatalf("expected %d distinct digests, got %d", 256+1+len(base)*8, len(seen))
	}
}

func TestFileMissing(t *testing.T) {
	_, err := fingerprint.File(filepath.Join(t.TempDir(), "missing.jpg"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
