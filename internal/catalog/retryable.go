package catalog

import (
	"context"
	"errors"
	"net"

	"gallerysync/internal/services"
)

// IsRetryable reports whether err is worth another attempt: transient or
// timeout markers, per-request deadlines and network timeouts.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, services.ErrAuthentication) || errors.Is(err, services.ErrConfiguration) ||
		errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrValidation) {
		return false
	}
	if errors.Is(err, services.ErrTransient) || errors.Is(err, services.ErrTimeout) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
