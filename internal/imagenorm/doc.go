// Package imagenorm prepares downloaded images for web delivery.
//
// Normalize is pure: it never touches the filesystem and never fails. When any
// step cannot complete, including a panic inside a codec, the original bytes
// are returned unchanged with the reason in Result.Fallback so callers can
// still store the asset and log the problem.
package imagenorm
