package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"gallerysync/internal/catalog"
	"gallerysync/internal/catalog/drive"
	"gallerysync/internal/config"
	"gallerysync/internal/logging"
)

const retryMaxDelay = 10 * time.Second

// sourceOpener connects to the remote catalog for a loaded configuration.
type sourceOpener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Source, error)

type commandContext struct {
	configFlag *string
	openSource sourceOpener

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, opener sourceOpener) *commandContext {
	if opener == nil {
		opener = openDrive
	}
	return &commandContext{
		configFlag: configFlag,
		openSource: opener,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
		if c.loggerErr != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", c.loggerErr)
		}
	})
	return c.logger, c.loggerErr
}

// catalogReader validates the remote settings and returns a reader over the
// configured source.
func (c *commandContext) catalogReader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Reader, error) {
	if err := cfg.ValidateRemote(); err != nil {
		return nil, err
	}
	source, err := c.openSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return catalog.NewReader(source, cfg.Gallery.Categories, logger,
		catalog.WithRequestTimeout(cfg.RequestTimeout()),
		catalog.WithRetryAttempts(cfg.Drive.RetryAttempts),
		catalog.WithRetryBackoff(cfg.RetryBaseDelay(), retryMaxDelay),
	), nil
}

func openDrive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Source, error) {
	client, err := drive.New(ctx, drive.Options{
		CredentialsFile: cfg.Drive.CredentialsFile,
		Timeout:         cfg.RequestTimeout(),
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
