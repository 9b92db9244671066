package config

const (
	defaultConfigPath      = "~/.config/gallerysync/config.toml"
	projectConfigName      = "gallerysync.toml"
	defaultCredentialsFile = "service-account.json"
	defaultRequestTimeout  = 60
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500
	defaultGalleryRoot     = "docs/gallery/images"
	defaultMaxWidth        = 1200
	defaultJPEGQuality     = 85
	defaultStatusFile      = "sync-status.json"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultRetentionDays   = 30
	lockFileName           = ".gallerysync.lock"
	logFileName            = "gallerysync.log"
)

// DefaultCategories lists the gallery categories shared between the remote
// folder structure and the local directory layout.
func DefaultCategories() []string {
	return []string{"drywall", "deck", "electrical", "bathroom", "painting"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Drive: Drive{
			RequestTimeout:   defaultRequestTimeout,
			RetryAttempts:    defaultRetryAttempts,
			RetryBaseDelayMS: defaultRetryBaseDelay,
		},
		Gallery: Gallery{
			Root:        defaultGalleryRoot,
			Categories:  DefaultCategories(),
			MaxWidth:    defaultMaxWidth,
			JPEGQuality: defaultJPEGQuality,
			Prune:       true,
			StatusFile:  defaultStatusFile,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
