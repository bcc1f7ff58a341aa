package earthengine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

var (
	// ErrNotInitialized is returned by a nil client, i.e. when startup
	// authentication failed.
	ErrNotInitialized = errors.New("earth engine client not initialized")
	ErrRateLimited    = errors.New("rate limited")
	ErrCircuitOpen    = errors.New("circuit breaker open")
	// ErrEmptyResult is returned for a 2xx reply that carries no result.
	ErrEmptyResult = errors.New("empty result")

	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// APIError is a non-2xx answer from the Earth Engine API. Err holds the
// decoded Google error envelope.
type APIError struct {
	StatusCode int
	Message    string
	Err        *googleapi.Error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("earth engine %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the request may succeed if retried.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func (e *APIError) Unwrap() []error {
	var errs []error
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.StatusCode == http.StatusTooManyRequests {
		errs = append(errs, ErrRateLimited)
	}
	return errs
}

// decodeAPIError reads the Google error envelope from a non-2xx resp.
// The body is consumed.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var gerr *googleapi.Error
	if err := googleapi.CheckResponse(resp); errors.As(err, &gerr) {
		apiErr.Err = gerr
		apiErr.Message = gerr.Message
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(gerr.Body)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// IsPermanent reports whether err is a rejection that retrying cannot fix.
func IsPermanent(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return !apiErr.Temporary()
	}
	return false
}

// IsGeometryError reports whether the service rejected the sampling geometry.
func IsGeometryError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Temporary() {
		return false
	}
	return containsAny(strings.ToLower(apiErr.Message), "geometry", "coordinates", "latitude", "longitude")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
