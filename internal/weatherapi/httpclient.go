package weatherapi

import (
	"time"

	zlog "github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	// Default retry configuration
	defaultRetryCount       = 2
	defaultRetryWaitTime    = 500 * time.Millisecond
	defaultRetryMaxWaitTime = 3 * time.Second
)

// newHTTPClient creates the resty client the adapter uses: JSON accept
// header, per-attempt timeout, and retries with exponential backoff on
// transient upstream failures. Client errors are never retried.
func newHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Transport failures are classified by the adapter, not retried here.
	if err != nil {
		return false
	}

	// Retry on server errors (5xx)
	if r.StatusCode() >= 500 {
		return true
	}

	// Retry on rate limit (429)
	if r.StatusCode() == 429 {
		return true
	}

	return false
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		zlog.Debug().
			Str("url", r.Request.URL).
			Int("attempt", r.Request.Attempt).
			Err(err).
			Msg("retrying provider request after error")
		return
	}

	zlog.Debug().
		Str("url", r.Request.URL).
		Int("attempt", r.Request.Attempt).
		Int("status_code", r.StatusCode()).
		Msg("retrying provider request after status code")
}
