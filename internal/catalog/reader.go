package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gallerysync/internal/logging"
	"gallerysync/internal/services"
)

const (
	defaultRequestTimeout = 60 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 10 * time.Second
)

// Reader enumerates categories and assets from a Source with bounded retries
// and failure isolation. It never mutates remote state.
type Reader struct {
	source         Source
	known          KnownSet
	logger         *slog.Logger
	requestTimeout time.Duration
	retryAttempts  int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	sleeper        func(time.Duration)
}

// Option configures a Reader.
type Option func(*Reader)

// WithRequestTimeout bounds every individual remote call.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(r *Reader) {
		if timeout > 0 {
			r.requestTimeout = timeout
		}
	}
}

// WithRetryAttempts overrides the number of attempts per remote call.
func WithRetryAttempts(attempts int) Option {
	return func(r *Reader) {
		if attempts > 0 {
			r.retryAttempts = attempts
		}
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(r *Reader) {
		r.retryBaseDelay = baseDelay
		r.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(r *Reader) {
		r.sleeper = sleeper
	}
}

// NewReader constructs a Reader recognizing the given category names.
func NewReader(source Source, categories []string, logger *slog.Logger, opts ...Option) *Reader {
	r := &Reader{
		source:         source,
		known:          NewKnownSet(categories),
		logger:         logging.NewComponentLogger(logger, "catalog"),
		requestTimeout: defaultRequestTimeout,
		retryAttempts:  defaultRetryAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListCategories returns recognized category folders directly under rootID,
// keyed by canonical name. When two folders map to the same category the last
// one listed wins. Authentication failures are returned; any other failure is
// logged and yields an empty map.
func (r *Reader) ListCategories(ctx context.Context, rootID string) (map[string]string, error) {
	found := make(map[string]string)
	var folders []Folder
	err := r.do(ctx, "list categories", func(ctx context.Context) error {
		var err error
		folders, err = r.source.ListFolders(ctx, rootID)
		return err
	})
	if err != nil {
		if errors.Is(err, services.ErrAuthentication) || ctx.Err() != nil {
			return nil, err
		}
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "category listing failed; no categories synced", "category_list_failed",
			logging.String("folder_id", rootID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the root folder id and that it is shared with the service account"),
			logging.String(logging.FieldImpact, "no categories were synced this run"),
		)
		return found, nil
	}

	for _, folder := range folders {
		name, ok := r.known.Match(folder.Name)
		if !ok {
			r.logger.Debug("ignoring unrecognized folder",
				logging.String("folder", folder.Name),
				logging.String("folder_id", folder.ID),
			)
			continue
		}
		found[name] = folder.ID
	}
	return found, nil
}

// ListAssets returns accepted image files directly inside folderID in
// deterministic order. Failures are logged and returned so the caller can skip
// the category.
func (r *Reader) ListAssets(ctx context.Context, folderID string) ([]RemoteAsset, error) {
	var files []RemoteAsset
	err := r.do(ctx, "list assets", func(ctx context.Context) error {
		var err error
		files, err = r.source.ListFiles(ctx, folderID, AcceptedMIMETypes())
		return err
	})
	if err != nil {
		if ctx.Err() == nil {
			logging.WarnWithContext(logging.WithContext(ctx, r.logger), "asset listing failed; category skipped", "asset_list_failed",
				logging.String("folder_id", folderID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "category skipped and stale files kept"),
			)
		}
		return nil, err
	}

	assets := make([]RemoteAsset, 0, len(files))
	for _, file := range files {
		if !IsAcceptedMIME(file.MimeType) {
			continue
		}
		assets = append(assets, file)
	}
	SortAssets(assets)
	return assets, nil
}

// Fetch downloads the raw bytes of asset.
func (r *Reader) Fetch(ctx context.Context, asset RemoteAsset) ([]byte, error) {
	if asset.ID == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "fetch", "asset id is empty", nil)
	}
	var data []byte
	err := r.do(ctx, "fetch "+asset.Name, func(ctx context.Context) error {
		var err error
		data, err = r.source.Download(ctx, asset.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// do runs call with a per-request timeout, retrying transient failures with
// exponential backoff.
func (r *Reader) do(ctx context.Context, op string, call func(context.Context) error) error {
	attempts := r.retryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, r.requestTimeout)
		err := call(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		delay, retry := r.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			break
		}
		r.logger.Debug("retrying remote call",
			logging.String("operation", op),
			logging.Int("attempt", attempt),
			logging.Duration("backoff", delay),
			logging.Error(err),
		)
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if attempts > 1 && IsRetryable(lastErr) {
		return fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func (r *Reader) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx.Err() != nil {
		return 0, false
	}
	if !IsRetryable(err) {
		return 0, false
	}
	return r.backoffDelay(attempt), true
}

// backoffDelay returns base for attempt 1, base*2 for attempt 2, and so on,
// capped at the max delay.
func (r *Reader) backoffDelay(attempt int) time.Duration {
	base := r.retryBaseDelay
	if base <= 0 {
		return 0
	}
	maxDelay := r.retryMaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			return maxDelay
		}
		delay *= 2
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (r *Reader) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if r.sleeper != nil {
		r.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
