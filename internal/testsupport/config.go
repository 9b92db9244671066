package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"gallerysync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The gallery root lives under the temp dir and a placeholder credentials file
// is written so local checks pass.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Drive.RootFolderID = "root-folder"
	cfgVal.Drive.CredentialsFile = filepath.Join(base, "service-account.json")
	cfgVal.Drive.RetryBaseDelayMS = 0
	cfgVal.Gallery.Root = filepath.Join(base, "gallery")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	if err := os.WriteFile(cfgVal.Drive.CredentialsFile, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatalf("write credentials stub: %v", err)
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRootFolderID overrides the remote root folder on the test config.
func WithRootFolderID(id string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Drive.RootFolderID = id
	}
}

// WithForce toggles force mode on the test config.
func WithForce(force bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gallery.Force = force
	}
}

// WithoutCredentials removes the placeholder credentials file.
func WithoutCredentials() ConfigOption {
	return func(b *configBuilder) {
		if err := os.Remove(b.cfg.Drive.CredentialsFile); err != nil && !os.IsNotExist(err) {
			b.t.Fatalf("remove credentials stub: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Gallery.Root)
}
