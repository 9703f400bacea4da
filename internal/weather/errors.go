package weather

import (
	"errors"
	"fmt"
)

// Kind represents the category of failure produced by the retrieval pipeline.
// The set is closed: every error surfaced to a caller carries exactly one of
// these kinds, so boundary layers can map them mechanically.
type Kind string

const (
	// KindInvalidInput indicates the caller-supplied city string was rejected
	// before any cache or network access.
	KindInvalidInput Kind = "invalid_input"
	// KindUnknownCity indicates the provider did not recognize the city.
	KindUnknownCity Kind = "unknown_city"
	// KindBadRequest indicates the provider rejected the request as malformed.
	KindBadRequest Kind = "bad_request"
	// KindTimeout indicates no response arrived within the configured bound.
	KindTimeout Kind = "timeout"
	// KindNetworkUnavailable indicates the provider was not reachable at all.
	KindNetworkUnavailable Kind = "network_unavailable"
	// KindUpstreamUnavailable indicates a provider outage, quota exhaustion,
	// or auth failure on our credential.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindInternalProviderError indicates an unclassified server-side failure
	// or a payload that violates the provider contract.
	KindInternalProviderError Kind = "internal_provider_error"
)

// Error is a classified failure from the retrieval pipeline.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewInvalidInput creates an input-validation error.
func NewInvalidInput(message string, details map[string]string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Details: details}
}

// NewUnknownCity creates a city-not-recognized error.
func NewUnknownCity(city string) *Error {
	return &Error{
		Kind:    KindUnknownCity,
		Message: fmt.Sprintf("unknown city: %s", city),
		Details: map[string]string{"city": city},
	}
}

// NewBadRequest creates a malformed-request error.
func NewBadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// NewTimeout creates a timeout error.
func NewTimeout(cause error) *Error {
	return &Error{Kind: KindTimeout, Message: "weather provider request timed out", Cause: cause}
}

// NewNetworkUnavailable creates a connection-failure error.
func NewNetworkUnavailable(cause error) *Error {
	return &Error{Kind: KindNetworkUnavailable, Message: "weather provider is unreachable", Cause: cause}
}

// NewUpstreamUnavailable creates a provider-outage error.
func NewUpstreamUnavailable(statusCode int) *Error {
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Message: "weather provider is temporarily unavailable",
		Details: map[string]string{"status_code": fmt.Sprintf("%d", statusCode)},
	}
}

// NewInternalProviderError creates an unclassified-provider-failure error.
func NewInternalProviderError(message string, cause error) *Error {
	return &Error{Kind: KindInternalProviderError, Message: message, Cause: cause}
}

// KindOf returns the taxonomy kind of err, or "" if err does not carry one.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
