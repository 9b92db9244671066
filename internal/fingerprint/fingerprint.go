// Package fingerprint computes content digests used to decide whether a
// gallery image changed between runs.
package fingerprint

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// chunkSize bounds memory use when hashing files on disk.
const chunkSize = 64 * 1024

// Digest is a hex-encoded 64-bit xxHash of some content.
type Digest string

// Bytes returns the digest of data.
func Bytes(data []byte) Digest {
	return format(xxhash.Sum64(data))
}

// Reader streams r through the hash in fixed-size chunks.
func Reader(r io.Reader) (Digest, error) {
	h := xxhash.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return format(h.Sum64()), nil
}

// File returns the digest of the file at path. Callers treat any error as
// "no existing fingerprint".
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	digest, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return digest, nil
}

func format(sum uint64) Digest {
	return Digest(fmt.Sprintf("%016x", sum))
}
