package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// CheckCredentialsFile verifies that the service account key exists and looks
// like a service account key. It does not contact Google.
func CheckCredentialsFile(path string) Result {
	const name = "Service account"

	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured (set drive.credentials_file or GOOGLE_APPLICATION_CREDENTIALS)"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s not found (download a key from Google Cloud Console)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	var key struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: invalid JSON: %v)", path, err)}
	}
	if key.Type != "service_account" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: type %q is not service_account)", path, key.Type)}
	}
	if key.ClientEmail != "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, key.ClientEmail)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckRootFolder verifies that a root folder id is configured.
func CheckRootFolder(id string) Result {
	const name = "Drive folder"
	if strings.TrimSpace(id) == "" {
		return Result{Name: name, Detail: "GOOGLE_DRIVE_FOLDER_ID not set"}
	}
	return Result{Name: name, Passed: true, Detail: id}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCategoryDirs reports which known categories already have a local
// directory under root. Missing directories are created by the first sync, so
// the check only fails when root cannot be read.
func CheckCategoryDirs(root string, categories []string) Result {
	const name = "Category directories"

	entries, err := os.ReadDir(root)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", root, err)}
	}
	var present []string
	for _, entry := range entries {
		if entry.IsDir() && slices.Contains(categories, entry.Name()) {
			present = append(present, entry.Name())
		}
	}
	slices.Sort(present)
	missing := len(categories) - len(present)
	detail := "none yet"
	if len(present) > 0 {
		detail = strings.Join(present, ", ")
	}
	if missing > 0 {
		detail += fmt.Sprintf(" (%d created on first sync)", missing)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CategoryLister is the subset of the catalog reader used by CheckCatalog.
type CategoryLister interface {
	ListCategories(ctx context.Context, rootID string) (map[string]string, error)
}

// CheckCatalog lists category folders under rootID to confirm credentials and
// sharing are set up.
func CheckCatalog(ctx context.Context, lister CategoryLister, rootID string) Result {
	const name = "Drive connection"

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	found, err := lister.ListCategories(checkCtx, rootID)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("authentication failed (%v)", err)}
	}
	if len(found) == 0 {
		return Result{Name: name, Detail: "connected, but no category folders found"}
	}
	names := make([]string, 0, len(found))
	for category := range found {
		names = append(names, category)
	}
	slices.Sort(names)
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("found %s", strings.Join(names, ", "))}
}

// galleryParent returns the closest existing ancestor of path, used to judge
// whether a missing gallery root can be created.
func galleryParent(path string) string {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		if dir == filepath.Dir(dir) {
			return dir
		}
	}
}
