package fault

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a failure for callers and for the HTTP layer.
type Kind string

const (
	KindInvalidArgument     Kind = "invalid_argument"
	KindNotFound            Kind = "not_found"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindQuotaExceeded       Kind = "quota_exceeded"
	KindCacheUnavailable    Kind = "cache_unavailable"
)

// Error is a kinded error propagated explicitly through each layer.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Helpers
func InvalidArgument(msg string, err error) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg, Err: err}
}
func NotFound(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}
func UpstreamUnavailable(msg string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: msg, Err: err}
}
func QuotaExceeded(msg string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindQuotaExceeded, Message: msg, RetryAfter: retryAfter}
}
func CacheUnavailable(msg string, err error) *Error {
	return &Error{Kind: KindCacheUnavailable, Message: msg, Err: err}
}

// Is compares the kind regardless of wrapping.
func Is(err error, k Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == k
	}
	return false
}

// KindOf returns the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
