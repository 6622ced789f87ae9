// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snitch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bureau-foundation/dms/lib/failure"
	"github.com/bureau-foundation/dms/lib/netutil"
)

// Defaults for Options.
const (
	DefaultAPIURL     = "https://api.deadmanssnitch.com/v1/snitches"
	DefaultCheckInURL = "https://nosnch.in"
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "dms"
)

// Snitch API errors, testable with errors.Is.
var (
	ErrNotFound = errors.New("snitch not found")
	ErrNoData   = errors.New("no data received from the snitch API")
	ErrProtocol = errors.New("malformed snitch API response")
)

// Options configures a Client.
type Options struct {
	// APIURL is the snitches collection endpoint.
	APIURL string

	// CheckInURL is the check-in host; the token is appended as the
	// path.
	CheckInURL string

	// Timeout bounds both connection setup and the whole exchange.
	Timeout time.Duration

	// UserAgent is sent on snitch API calls.
	UserAgent string

	// RequestID, when set, is sent as X-Request-Id.
	RequestID string

	// Verbose logs the full request and response at debug level.
	Verbose bool

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	// Transport overrides the HTTP transport. Nil builds one from
	// Timeout with TLS verification enabled.
	Transport http.RoundTripper
}

// DefaultOptions returns Options pointing at the production service.
func DefaultOptions() Options {
	return Options{
		APIURL:     DefaultAPIURL,
		CheckInURL: DefaultCheckInURL,
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
	}
}

// Status is the outcome of an answered request: the code the service
// sent and the code the call expects.
type Status struct {
	Code     int
	Expected int
}

// OK reports whether the service answered with the expected code.
func (s Status) OK() bool {
	return s.Code == s.Expected
}

// Successful reports whether the service answered with any 2xx code.
func (s Status) Successful() bool {
	return s.Code >= 200 && s.Code < 300
}

func (s Status) String() string {
	return fmt.Sprintf("HTTP %d (expected %d)", s.Code, s.Expected)
}

// Client talks to the snitch API. A Client performs one request at a
// time and is not safe for concurrent use.
type Client struct {
	httpClient *http.Client
	options    Options
	logger     *slog.Logger
	download   *netutil.DownloadBuffer
}

// NewClient creates a Client. Zero-valued Options fields take their
// defaults.
func NewClient(options Options) *Client {
	defaults := DefaultOptions()
	if options.APIURL == "" {
		options.APIURL = defaults.APIURL
	}
	if options.CheckInURL == "" {
		options.CheckInURL = defaults.CheckInURL
	}
	if options.Timeout <= 0 {
		options.Timeout = defaults.Timeout
	}
	if options.UserAgent == "" {
		options.UserAgent = defaults.UserAgent
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := options.Transport
	if transport == nil {
		transport = newTransport(options.Timeout)
	}
	if options.Verbose {
		transport = &wireLogger{next: transport, logger: logger}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   options.Timeout,
		},
		options:  options,
		logger:   logger,
		download: netutil.NewDownloadBuffer(),
	}
}

// newTransport builds the production transport: certificate
// verification on, connect and handshake bounded by timeout, and no
// idle connections kept since each run makes a single request.
func newTransport(timeout time.Duration) *http.Transport {
	dialer := &net.Dialer{Timeout: timeout}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout: timeout,
		ForceAttemptHTTP2:   true,
		DisableKeepAlives:   true,
	}
}

// Create creates a snitch described by body, a JSON document, and
// returns its token. The body is streamed from a seekable buffer so it
// can be replayed if the service redirects.
func (client *Client) Create(ctx context.Context, apiKey string, body []byte) (string, error) {
	upload := netutil.NewUploadBuffer(body)
	request, err := client.newRequest(ctx, http.MethodPost, client.options.APIURL, apiKey, upload)
	if err != nil {
		return "", err
	}
	// Content-Length is sent from request.ContentLength.
	request.ContentLength = int64(upload.Len())
	request.GetBody = upload.Rewind
	request.Header.Set("Content-Type", "application/json")

	response, err := client.do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	defer client.download.Reset()
	if err := client.download.Fill(response.Body); err != nil {
		return "", failure.Transport("reading create response: %w", err)
	}

	if response.StatusCode == http.StatusNotFound {
		client.logger.Warn("HTTP request failed",
			"method", request.Method,
			"status", response.StatusCode,
			"body", client.download.String())
		return "", failure.NotFound("create snitch: %w: %s", ErrNotFound, response.Status)
	}

	if client.download.Len() == 0 {
		client.logger.Warn("no data received from the snitch API", "status", response.StatusCode)
		return "", failure.Protocol("create snitch: %w (HTTP %d)", ErrNoData, response.StatusCode)
	}

	token, err := parseToken(client.download.Bytes())
	if err != nil {
		return "", failure.Protocol("create snitch: %w (HTTP %d)", err, response.StatusCode)
	}
	return token, nil
}

// parseToken extracts the token field from a create response. The body
// is decoded generically so that every malformed shape maps to
// ErrProtocol rather than to a json type error.
func parseToken(data []byte) (string, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return "", fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	object, ok := root.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: json root is not an object", ErrProtocol)
	}
	token, ok := object["token"].(string)
	if !ok {
		return "", fmt.Errorf("%w: token is not a string", ErrProtocol)
	}
	if token == "" {
		return "", fmt.Errorf("%w: token is empty", ErrProtocol)
	}
	return token, nil
}

// CheckIn reports that the monitored job ran. The service answers 202;
// any other code is logged and returned in the Status with a nil error.
func (client *Client) CheckIn(ctx context.Context, token string) (Status, error) {
	target := strings.TrimSuffix(client.options.CheckInURL, "/") + "/" + url.PathEscape(token)
	request, err := client.newRequest(ctx, http.MethodGet, target, "", nil)
	if err != nil {
		return Status{}, err
	}
	return client.exchange(request, http.StatusAccepted)
}

// Delete removes the snitch. A 404 is returned as a not-found error
// along with its Status; any other answer is returned as a Status.
func (client *Client) Delete(ctx context.Context, apiKey, token string) (Status, error) {
	request, err := client.newRequest(ctx, http.MethodDelete, client.snitchURL(token), apiKey, nil)
	if err != nil {
		return Status{}, err
	}
	status, err := client.exchange(request, http.StatusNoContent)
	if err != nil {
		return status, err
	}
	if status.Code == http.StatusNotFound {
		return status, failure.NotFound("delete snitch: %w", ErrNotFound)
	}
	return status, nil
}

// Pause pauses the snitch until its next check-in. The service answers
// 204; any other code is logged and returned in the Status with a nil
// error.
func (client *Client) Pause(ctx context.Context, apiKey, token string) (Status, error) {
	request, err := client.newRequest(ctx, http.MethodPost, client.snitchURL(token)+"/pause", apiKey, http.NoBody)
	if err != nil {
		return Status{}, err
	}
	request.ContentLength = 0
	return client.exchange(request, http.StatusNoContent)
}

func (client *Client) snitchURL(token string) string {
	return strings.TrimSuffix(client.options.APIURL, "/") + "/" + url.PathEscape(token)
}

// newRequest builds a request with the headers every call shares.
// Basic credentials are attached only when apiKey is non-empty.
func (client *Client) newRequest(ctx context.Context, method, target, apiKey string, body io.Reader) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, failure.Internal("building %s request: %w", method, err)
	}
	request.Header.Set("User-Agent", client.options.UserAgent)
	if client.options.RequestID != "" {
		request.Header.Set("X-Request-Id", client.options.RequestID)
	}
	if apiKey != "" {
		request.SetBasicAuth(apiKey, "")
	}
	return request, nil
}

// do sends request, classifying a failure to complete the exchange as a
// transport failure.
func (client *Client) do(request *http.Request) (*http.Response, error) {
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, failure.Transport("HTTP request failed: %w", err)
	}
	return response, nil
}

// exchange sends a request whose body dms does not need and compares
// the status with expected. A mismatch is logged, not returned.
func (client *Client) exchange(request *http.Request, expected int) (Status, error) {
	response, err := client.do(request)
	if err != nil {
		return Status{}, err
	}
	defer response.Body.Close()

	status := Status{Code: response.StatusCode, Expected: expected}
	if response.StatusCode == http.StatusNotFound {
		client.logger.Warn("HTTP request failed",
			"method", request.Method,
			"status", response.StatusCode,
			"body", netutil.ErrorBody(response.Body))
		return status, nil
	}
	netutil.Drain(response.Body)

	if !status.OK() {
		client.logger.Warn("unexpected HTTP status",
			"method", request.Method,
			"status", status.Code,
			"expected", status.Expected)
	}
	return status, nil
}
