// Package preflight provides readiness checks for the credentials, remote
// folder and local gallery directory that gallerysync depends on.
//
// The CLI "gallerysync check" command runs the local checks and, when they
// pass and --remote is given, a connection check that lists category folders.
// Each check returns a Result with a short human-readable detail.
package preflight
