package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDrive(); err != nil {
		return err
	}
	if err := c.normalizeGallery(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeDrive() error {
	c.Drive.RootFolderID = strings.TrimSpace(c.Drive.RootFolderID)
	if c.Drive.RootFolderID == "" {
		if value, ok := os.LookupEnv("GOOGLE_DRIVE_FOLDER_ID"); ok {
			c.Drive.RootFolderID = strings.TrimSpace(value)
		}
	}
	c.Drive.CredentialsFile = strings.TrimSpace(c.Drive.CredentialsFile)
	if c.Drive.CredentialsFile == "" {
		if value, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS"); ok && strings.TrimSpace(value) != "" {
			c.Drive.CredentialsFile = strings.TrimSpace(value)
		} else {
			c.Drive.CredentialsFile = defaultCredentialsFile
		}
	}
	var err error
	if c.Drive.CredentialsFile, err = expandPath(c.Drive.CredentialsFile); err != nil {
		return fmt.Errorf("drive.credentials_file: %w", err)
	}
	if c.Drive.RequestTimeout == 0 {
		c.Drive.RequestTimeout = defaultRequestTimeout
	}
	if c.Drive.RetryAttempts == 0 {
		c.Drive.RetryAttempts = defaultRetryAttempts
	}
	return nil
}

func (c *Config) normalizeGallery() error {
	var err error
	if strings.TrimSpace(c.Gallery.Root) == "" {
		c.Gallery.Root = defaultGalleryRoot
	}
	if c.Gallery.Root, err = expandPath(strings.TrimSpace(c.Gallery.Root)); err != nil {
		return fmt.Errorf("gallery.root: %w", err)
	}

	categories := make([]string, 0, len(c.Gallery.Categories))
	seen := make(map[string]struct{}, len(c.Gallery.Categories))
	for _, category := range c.Gallery.Categories {
		normalized := strings.ToLower(strings.TrimSpace(category))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		categories = append(categories, normalized)
	}
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	c.Gallery.Categories = categories

	c.Gallery.StatusFile = strings.TrimSpace(c.Gallery.StatusFile)
	if c.Gallery.StatusFile == "" {
		c.Gallery.StatusFile = defaultStatusFile
	}
	c.Gallery.StatusFile = filepath.Base(c.Gallery.StatusFile)

	if value, ok := os.LookupEnv("FORCE_SYNC"); ok {
		c.Gallery.Force = parseFlag(value)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		var err error
		if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}

// parseFlag accepts the truthy spellings used by CI environments.
func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
