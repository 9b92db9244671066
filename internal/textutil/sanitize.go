package textutil

import (
	"path"
	"strings"
	"unicode"
)

// Stem returns the final path element of name without its extension.
// Dot-files such as ".hidden" keep their full name.
func Stem(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	ext := path.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Slug reduces a display name to a lowercase token made of letters, digits,
// hyphens and underscores. The extension is dropped and every other character
// is removed rather than replaced, so "Deck Railing Final.png" becomes
// "deckrailingfinal". The result may be empty.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range Stem(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SlugOr returns Slug(name), or fallback when the slug is empty.
func SlugOr(name, fallback string) string {
	if slug := Slug(name); slug != "" {
		return slug
	}
	return fallback
}
