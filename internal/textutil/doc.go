// Package textutil turns remote display names into filesystem-safe tokens.
package textutil
