package preflight

import (
	"context"
	"fmt"
	"os"

	"gallerysync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunLocal executes the checks that need no network access.
func RunLocal(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckCredentialsFile(cfg.Drive.CredentialsFile),
		CheckRootFolder(cfg.Drive.RootFolderID),
	}

	if _, err := os.Stat(cfg.Gallery.Root); os.IsNotExist(err) {
		parent := galleryParent(cfg.Gallery.Root)
		check := CheckDirectoryAccess("Gallery directory", parent)
		check.Detail = fmt.Sprintf("%s missing; will be created under %s", cfg.Gallery.Root, check.Detail)
		results = append(results, check)
		return results
	}

	results = append(results, CheckDirectoryAccess("Gallery directory", cfg.Gallery.Root))
	results = append(results, CheckCategoryDirs(cfg.Gallery.Root, cfg.Gallery.Categories))
	return results
}

// RunAll executes the local checks and, when they pass, the remote connection check.
func RunAll(ctx context.Context, cfg *config.Config, lister CategoryLister) []Result {
	results := RunLocal(cfg)
	if lister == nil || !AllPassed(results) {
		return results
	}
	return append(results, CheckCatalog(ctx, lister, cfg.Drive.RootFolderID))
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
