// Package services defines shared utilities consumed by the sync engine and the
// remote catalog integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, engine stages, and category names
//     for logging.
//   - Structured error markers plus the Wrap helper that separate fatal
//     failures (configuration, authentication) from ones a run can skip past.
//
// The Drive adapter in catalog/drive classifies API failures into these
// markers so the engine never inspects HTTP status codes.
package services
