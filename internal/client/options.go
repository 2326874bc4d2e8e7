package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// RedirectReason tells the login redirect why it fired
type RedirectReason int

const (
	// RedirectUnauthorized means the server rejected the request with 401
	RedirectUnauthorized RedirectReason = iota
	// RedirectLogout means the user logged out
	RedirectLogout
)

func (r RedirectReason) String() string {
	switch r {
	case RedirectUnauthorized:
		return "unauthorized"
	case RedirectLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// LoginRedirect sends the user to the login page. The client triggers it but does not
// own it; the browser redirect of a web front end and the hint printed by a CLI are
// both LoginRedirects.
type LoginRedirect func(ctx context.Context, reason RedirectReason)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLoginRedirect sets the navigation policy run on 401 and logout
func WithLoginRedirect(redirect LoginRedirect) Option {
	return func(c *Client) {
		c.redirect = redirect
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// requestConfig is the per-call request descriptor
type requestConfig struct {
	method string
	body   io.Reader
	header http.Header
	err    error
}

// RequestOption configures a single Request call
type RequestOption func(*requestConfig)

// WithMethod sets the HTTP method (default GET)
func WithMethod(method string) RequestOption {
	return func(rc *requestConfig) {
		rc.method = method
	}
}

// WithBody sets a raw request body
func WithBody(body io.Reader) RequestOption {
	return func(rc *requestConfig) {
		rc.body = body
	}
}

// WithJSONBody serializes v as the request body
func WithJSONBody(v any) RequestOption {
	return func(rc *requestConfig) {
		data, err := json.Marshal(v)
		if err != nil {
			rc.err = fmt.Errorf("failed to marshal request: %w", err)
			return
		}
		rc.body = bytes.NewReader(data)
	}
}

// WithHeader overrides a header. Overrides win over the defaults,
// including Content-Type and Authorization.
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		rc.header.Set(key, value)
	}
}
