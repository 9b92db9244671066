package drive

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"gallerysync/internal/services"
)

var rateLimitReasons = map[string]struct{}{
	"rateLimitExceeded":     {},
	"userRateLimitExceeded": {},
}

// classify tags a Drive API failure with a services marker: 401 and non-rate
// limit 403 are authentication failures, 404 is not found, 408, 429, rate
// limited 403 and 5xx are transient, and network timeouts are timeouts. A
// token exchange the OAuth endpoint rejects (revoked or wrong key) is an
// authentication failure unless the endpoint itself is failing.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) {
		status := 0
		if tokenErr.Response != nil {
			status = tokenErr.Response.StatusCode
		}
		message := fmt.Sprintf("token exchange failed (status %d)", status)
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			return services.Wrap(services.ErrTransient, "drive", op, message, err)
		}
		return services.Wrap(services.ErrAuthentication, "drive", op, message, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := fmt.Sprintf("status %d", apiErr.Code)
		switch {
		case apiErr.Code == http.StatusForbidden && isRateLimited(apiErr):
			return services.Wrap(services.ErrTransient, "drive", op, message, err)
		case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
			return services.Wrap(services.ErrAuthentication, "drive", op, message, err)
		case apiErr.Code == http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "drive", op, message, err)
		case apiErr.Code == http.StatusRequestTimeout,
			apiErr.Code == http.StatusTooManyRequests,
			apiErr.Code >= http.StatusInternalServerError:
			return services.Wrap(services.ErrTransient, "drive", op, message, err)
		default:
			return services.Wrap(services.ErrValidation, "drive", op, message, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.Wrap(services.ErrTimeout, "drive", op, "request timed out", err)
	}
	return fmt.Errorf("drive: %s: %w", op, err)
}

func isRateLimited(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		if _, ok := rateLimitReasons[item.Reason]; ok {
			return true
		}
	}
	return false
}
