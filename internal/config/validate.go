package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable for local operations.
func (c *Config) Validate() error {
	if err := c.validateDrive(); err != nil {
		return err
	}
	if err := c.validateGallery(); err != nil {
		return err
	}
	return nil
}

// ValidateRemote ensures the settings needed to reach the remote catalog are present.
func (c *Config) ValidateRemote() error {
	if strings.TrimSpace(c.Drive.RootFolderID) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("drive.root_folder_id is required. Set GOOGLE_DRIVE_FOLDER_ID env var or edit %s (create with 'gallerysync config init')", defaultPath)
	}
	if strings.TrimSpace(c.Drive.CredentialsFile) == "" {
		return errors.New("drive.credentials_file must be set (or set GOOGLE_APPLICATION_CREDENTIALS)")
	}
	return nil
}

func (c *Config) validateDrive() error {
	if c.Drive.RequestTimeout <= 0 {
		return errors.New("drive.request_timeout must be positive (seconds)")
	}
	if c.Drive.RetryAttempts <= 0 {
		return errors.New("drive.retry_attempts must be positive")
	}
	if c.Drive.RetryAttempts > 10 {
		return errors.New("drive.retry_attempts must be 10 or fewer")
	}
	if c.Drive.RetryBaseDelayMS < 0 {
		return errors.New("drive.retry_base_delay_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateGallery() error {
	if strings.TrimSpace(c.Gallery.Root) == "" {
		return errors.New("gallery.root must be set")
	}
	if c.Gallery.MaxWidth <= 0 {
		return errors.New("gallery.max_width must be positive")
	}
	if c.Gallery.JPEGQuality < 1 || c.Gallery.JPEGQuality > 100 {
		return errors.New("gallery.jpeg_quality must be between 1 and 100")
	}
	if len(c.Gallery.Categories) == 0 {
		return errors.New("gallery.categories must include at least one category")
	}
	for _, category := range c.Gallery.Categories {
		if !validCategory(category) {
			return fmt.Errorf("gallery.categories: %q must contain only lowercase letters, digits, hyphens, or underscores", category)
		}
	}
	return nil
}

func validCategory(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
