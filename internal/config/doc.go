// Package config loads, normalizes, and validates gallerysync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GOOGLE_DRIVE_FOLDER_ID and FORCE_SYNC. The Config type centralizes every knob
// the CLI and sync engine need, so the gallery root, the known category set, and
// the remote credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, a lowercase deduplicated category list, and clear validation
// errors.
package config
