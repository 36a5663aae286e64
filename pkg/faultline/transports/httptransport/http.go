// Package httptransport delivers wire documents to the ingestion service
// over HTTP.
package httptransport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// EnvServerTimeout is the request timeout, as a duration or seconds.
	EnvServerTimeout = "FAULTLINE_SERVER_TIMEOUT"

	// EnvVerifyServerCert disables TLS verification when false.
	EnvVerifyServerCert = "FAULTLINE_VERIFY_SERVER_CERT"

	defaultServerTimeout = 10 * time.Second

	// maxErrorBody bounds the response body read into an HTTPError.
	maxErrorBody = 4096
)

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient sets the HTTP client, replacing the environment-configured
// one.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		t.client = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		t.headers.Set("User-Agent", ua)
	}
}

// WithHeader sets an additional request header.
func WithHeader(key, value string) Option {
	return func(t *Transport) {
		t.headers.Set(key, value)
	}
}

// Transport POSTs JSON payloads to the endpoint URL.
// A Transport is safe for concurrent use.
type Transport struct {
	client  *http.Client
	headers http.Header
}

// New creates a Transport configured from the environment:
//
//   - FAULTLINE_SERVER_TIMEOUT: request timeout (default 10s). A duration
//     such as "5s" or a number of seconds. Zero or negative disables it.
//   - FAULTLINE_VERIFY_SERVER_CERT: when false, the server's TLS certificate
//     is not verified (default true).
func New(opts ...Option) (*Transport, error) {
	verifyServerCert, err := parseBoolEnv(EnvVerifyServerCert, true)
	if err != nil {
		return nil, err
	}
	serverTimeout, err := parseDurationEnv(EnvServerTimeout, defaultServerTimeout)
	if err != nil {
		return nil, err
	}
	if serverTimeout < 0 {
		serverTimeout = 0
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{InsecureSkipVerify: !verifyServerCert}

	t := &Transport{
		client: &http.Client{
			Timeout:   serverTimeout,
			Transport: base,
		},
		headers: http.Header{
			"Content-Type": []string{"application/json"},
			"User-Agent":   []string{"faultline-go"},
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Send POSTs payload to endpoint. It returns the response status, and an
// *HTTPError for any status other than 200 or 202.
func (t *Transport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, errors.Wrap(err, "failed to create request")
	}
	for k, v := range t.headers {
		req.Header[k] = v
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "sending request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return resp.StatusCode, &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    strings.TrimSpace(string(body)),
	}
}

// Close releases idle connections.
func (t *Transport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// HTTPError is returned by Send when the server answers with an error status.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("request failed with %s", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(err, "failed to parse %s", key)
	}
	return b, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse %s", key)
	}
	return d, nil
}
