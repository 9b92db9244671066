// Package catalog reads the remote category tree that feeds the gallery.
//
// A Reader wraps a Source (the Google Drive adapter in production, a fake in
// tests) and adds what the sync engine relies on: the closed set of known
// category names, MIME filtering, deterministic asset ordering, per-request
// timeouts and bounded retries with exponential backoff. Failures are isolated
// so a bad listing or download skips a category or a single asset instead of
// aborting the run; only authentication failures are surfaced as fatal.
package catalog
