// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package failure

import (
	"errors"
	"fmt"
)

// Category classifies a failure.
type Category string

const (
	// CategoryConfig is an unreadable config file or a setting that is
	// required by the chosen action but was never configured. Fatal.
	CategoryConfig Category = "config"

	// CategoryDirective is a single bad config line. The parser logs it
	// and continues with the next line.
	CategoryDirective Category = "directive"

	// CategoryToken is a missing, unreadable, oversized, or truncated
	// token file, or a failure to write or remove it.
	CategoryToken Category = "token"

	// CategoryTransport is a connection, timeout, or TLS failure. The
	// request may or may not have reached the service.
	CategoryTransport Category = "transport"

	// CategoryNotFound is a 404 from the snitch API.
	CategoryNotFound Category = "not_found"

	// CategoryProtocol is a response body that is empty, not JSON, or
	// JSON without the fields dms needs.
	CategoryProtocol Category = "protocol"

	// CategoryUnexpectedStatus is a service that answered, but not with
	// the status documented for the request.
	CategoryUnexpectedStatus Category = "unexpected_status"

	// CategoryInternal is anything else: bugs and local I/O that fits no
	// other category.
	CategoryInternal Category = "internal"
)

// Error is a categorized failure. It wraps the underlying error so that
// errors.Is and errors.As see the full chain.
type Error struct {
	Category Category
	Err      error
}

// Error returns the underlying message. The category travels separately.
func (e *Error) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// ExitCode is the process exit status for this failure. Every handled
// failure exits 1.
func (e *Error) ExitCode() int { return 1 }

// Wrap attaches category to err. Returns nil when err is nil.
func Wrap(category Category, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Category: category, Err: err}
}

func newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Err: fmt.Errorf(format, args...)}
}

// Config creates a config failure.
func Config(format string, args ...any) *Error { return newf(CategoryConfig, format, args...) }

// Directive creates a directive failure.
func Directive(format string, args ...any) *Error { return newf(CategoryDirective, format, args...) }

// Token creates a token file failure.
func Token(format string, args ...any) *Error { return newf(CategoryToken, format, args...) }

// Transport creates a transport failure.
func Transport(format string, args ...any) *Error { return newf(CategoryTransport, format, args...) }

// NotFound creates a not-found failure.
func NotFound(format string, args ...any) *Error { return newf(CategoryNotFound, format, args...) }

// Protocol creates a protocol failure.
func Protocol(format string, args ...any) *Error { return newf(CategoryProtocol, format, args...) }

// UnexpectedStatus creates an unexpected-status failure.
func UnexpectedStatus(format string, args ...any) *Error {
	return newf(CategoryUnexpectedStatus, format, args...)
}

// Internal creates an internal failure.
func Internal(format string, args ...any) *Error { return newf(CategoryInternal, format, args...) }

// CategoryOf returns the category of the outermost *Error in err's
// chain, or CategoryInternal when the chain has none. Returns "" for a
// nil error.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	var categorized *Error
	if errors.As(err, &categorized) {
		return categorized.Category
	}
	return CategoryInternal
}

// Is reports whether err carries the given category.
func Is(err error, category Category) bool {
	return err != nil && CategoryOf(err) == category
}
