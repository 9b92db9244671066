// Package drive adapts the Google Drive v3 API to catalog.Source.
//
// It authenticates with a service account key using the read-only Drive scope,
// hides continuation-token pagination behind plain slices, and classifies API
// failures into the services error markers that drive retry and fatality
// decisions in the catalog reader.
package drive
