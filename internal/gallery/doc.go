// Package gallery is the sync engine that mirrors remote category folders into
// a flattened local gallery directory.
//
// A run lists the known category folders, then for every category and every
// asset in listing order derives a deterministic file name, downloads and
// normalizes the image, and compares content fingerprints so unchanged images
// are never rewritten. Writes are atomic. After a category has been listed,
// regular *.jpg files whose names no longer correspond to a remote asset are
// removed. A status document summarizing the run is recorded at the end.
//
// Failures are scoped: an asset that cannot be downloaded or written is
// skipped, a category that cannot be listed is skipped without cleanup, and
// only configuration, authentication and status write failures abort the run.
package gallery
