package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category pairs a canonical gallery category with the remote folder that
// holds its images.
type Category struct {
	Name     string
	FolderID string
}

// KnownSet is the closed set of category names recognized in the remote root.
type KnownSet map[string]struct{}

// NewKnownSet builds a set from canonical lowercase names.
func NewKnownSet(names []string) KnownSet {
	set := make(KnownSet, len(names))
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Match returns the canonical name for a remote folder name, if recognized.
func (k KnownSet) Match(folderName string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(folderName))
	_, ok := k[name]
	return name, ok
}

// Names returns the known names in sorted order.
func (k KnownSet) Names() []string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sorted converts a name to folder id map into categories ordered by name.
func Sorted(found map[string]string) []Category {
	out := make([]Category, 0, len(found))
	for name, id := range found {
		out = append(out, Category{Name: name, FolderID: id})
	}
	slices.SortFunc(out, func(a, b Category) int { return strings.Compare(a.Name, b.Name) })
	return out
}

var titleCaser = cases.Title(language.English)

// DisplayName renders a category for humans, e.g. "drywall" as "Drywall".
func DisplayName(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}
