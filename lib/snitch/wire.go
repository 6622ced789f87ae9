// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snitch

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"
)

// wireLogger is a RoundTripper that logs each request and response at
// debug level, bodies included. Authorization headers are redacted.
type wireLogger struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (w *wireLogger) RoundTrip(request *http.Request) (*http.Response, error) {
	// DumpRequestOut replaces request.Body with an equivalent reader, so
	// the request is still sendable afterwards.
	if dump, err := httputil.DumpRequestOut(request, true); err == nil {
		w.logger.Debug("http request", "wire", redactAuthorization(string(dump)))
	} else {
		w.logger.Debug("http request", "method", request.Method, "url", request.URL.Redacted(), "dump_error", err)
	}

	response, err := w.next.RoundTrip(request)
	if err != nil {
		w.logger.Debug("http transport error", "error", err)
		return nil, err
	}

	if dump, err := httputil.DumpResponse(response, true); err == nil {
		w.logger.Debug("http response", "wire", string(dump))
	} else {
		w.logger.Debug("http response", "status", response.StatusCode, "dump_error", err)
	}
	return response, nil
}

func redactAuthorization(dump string) string {
	lines := strings.Split(dump, "\r\n")
	for index, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			lines[index] = "Authorization: [REDACTED]"
		}
	}
	return strings.Join(lines, "\r\n")
}
