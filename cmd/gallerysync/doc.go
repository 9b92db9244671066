// Package main hosts the gallerysync CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration lazily, builds the Drive-backed
// catalog reader, and hands control to the gallery engine for `sync`. The
// remaining commands are read-only helpers: `status` renders the last status
// document, `categories` lists what the service account can see, `check`
// validates local setup, and `config` scaffolds or validates the TOML file.
//
// Keep this package thin. Behavior belongs in the internal packages; commands
// here translate flags into options and format results for the terminal.
package main
