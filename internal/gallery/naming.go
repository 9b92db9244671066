package gallery

import (
	"fmt"

	"gallerysync/internal/textutil"
)

const (
	imageExt     = ".jpg"
	fallbackSlug = "project"
)

// FileName derives the local file name for the asset at 1-based position in a
// category listing: "{category}-{slug}-{position}.jpg". The slug comes from the
// remote display name; names with nothing usable become "project". The
// position keeps names unique when two assets share a slug.
func FileName(category, remoteName string, position int) string {
	return fmt.Sprintf("%s-%s-%d%s", category, textutil.SlugOr(remoteName, fallbackSlug), position, imageExt)
}
