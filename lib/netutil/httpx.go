// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP body plumbing for the snitch client.
//
// [UploadBuffer] is a seekable request body, so the HTTP client can
// replay it after a redirect. [DownloadBuffer] accumulates a response
// body and is reset between requests. Response reads are bounded at
// [MaxResponseSize] to prevent unbounded memory allocation from a
// misbehaving server; the snitch API's JSON responses are orders of
// magnitude smaller.
package netutil

import (
	"io"
)

// MaxResponseSize is the bound on response body reads: 1 MiB.
const MaxResponseSize int64 = 1 << 20

// ErrorBody reads an HTTP error response body and returns it as a string for
// diagnostic messages. Read errors are silently ignored; a partial or empty
// body is still useful in a diagnostic.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}

// Drain discards up to MaxResponseSize bytes of body so the connection
// can finish cleanly. Used for responses whose body dms does not need.
func Drain(body io.Reader) {
	io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
}
