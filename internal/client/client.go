// Package client talks to the music school backend API.
//
// Every request goes through Client.Request, which attaches the session's bearer token
// and clears the session when the server answers 401. Login and Register bypass it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/msctl-dev/msctl/internal/assert"
	"github.com/msctl-dev/msctl/internal/models"
	"github.com/msctl-dev/msctl/internal/session"
)

const (
	// DefaultBaseURL is the backend served by a local development stack
	DefaultBaseURL = "http://localhost:8000/api"

	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	mePath       = "/auth/me"

	requestIDHeader = "X-Request-ID"
)

// Client represents an HTTP client for the music school API
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Manager
	redirect   LoginRedirect
	logger     zerolog.Logger
	userAgent  string
}

// New creates a new API client. Tokens are read from and written to sess.
func New(baseURL string, sess *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		session: sess,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API base URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session manager backing this client
func (c *Client) Session() *session.Manager {
	return c.session
}

// Request sends a request to <baseURL><endpoint>. The default headers are
// Content-Type: application/json and, when a token is stored, Authorization: Bearer.
// Header overrides from opts win.
//
// A 401 response clears the stored token, runs the login redirect and yields
// ErrUnauthorized with a nil response. Any other response is returned as is and the
// caller owns its body.
func (c *Client) Request(ctx context.Context, endpoint string, opts ...RequestOption) (*http.Response, error) {
	rc := &requestConfig{
		method: http.MethodGet,
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.err != nil {
		return nil, rc.err
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, c.baseURL+endpoint, rc.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// An unreadable store counts as no token, as it does for IsAuthenticated
	token, err := c.session.Token()
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to load session token, sending request without it")
		token = ""
	}

	requestID := newRequestID()
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	req.Header.Set(requestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, values := range rc.header {
		req.Header[key] = values
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("method", rc.method).
			Str("endpoint", endpoint).
			Str("request_id", requestID).
			Msg("request failed")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	c.logger.Debug().
		Str("method", rc.method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if err := c.handleUnauthorized(ctx, token != "", requestID); err != nil {
			return nil, errors.Join(ErrUnauthorized, err)
		}
		return nil, ErrUnauthorized
	}

	return resp, nil
}

// handleUnauthorized clears the session and redirects to login.
// A rejected token redirects once per session, however many requests fail with it;
// an anonymous request redirects every time. A token that could not be cleared is
// reported to the caller and still redirects.
func (c *Client) handleUnauthorized(ctx context.Context, hadToken bool, requestID string) error {
	changed, err := c.session.Invalidate()
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to clear session token")
		err = fmt.Errorf("failed to clear session token: %w", err)
	}

	if changed {
		c.logger.Warn().Str("request_id", requestID).Msg("Session token rejected by server, session cleared")
	}

	if c.redirect != nil && (changed || !hadToken || err != nil) {
		c.redirect(ctx, RedirectUnauthorized)
	}
	return err
}

// Get sends a GET and decodes the JSON body into out
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	resp, err := c.Request(ctx, endpoint)
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// Post sends data as JSON and decodes the JSON body into out
func (c *Client) Post(ctx context.Context, endpoint string, data, out any) error {
	resp, err := c.Request(ctx, endpoint, WithMethod(http.MethodPost), WithJSONBody(data))
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// Put sends data as JSON and decodes the JSON body into out
func (c *Client) Put(ctx context.Context, endpoint string, data, out any) error {
	resp, err := c.Request(ctx, endpoint, WithMethod(http.MethodPut), WithJSONBody(data))
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// Delete sends a DELETE and reports whether the response was 2xx
func (c *Client) Delete(ctx context.Context, endpoint string) (bool, error) {
	resp, err := c.Request(ctx, endpoint, WithMethod(http.MethodDelete))
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return isOK(resp), nil
}

// Login exchanges credentials for a token and stores it in the session.
// The request is form encoded and never carries the current token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if !isOK(resp) {
		return nil, newAPIError(resp, fallbackLoginMessage)
	}

	var token models.Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if err := c.session.Login(token.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to save authentication token: %w", err)
	}

	c.logger.Info().Str("email", email).Msg("Logged in")
	return &token, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) (*models.User, error) {
	data, err := json.Marshal(models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registerPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if !isOK(resp) {
		return nil, newAPIError(resp, fallbackRegisterMessage)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}

// Logout clears the stored token and redirects to login
func (c *Client) Logout(ctx context.Context) error {
	if err := c.session.Logout(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if c.redirect != nil {
		c.redirect(ctx, RedirectLogout)
	}
	return nil
}

// IsAuthenticated reports whether a token is stored. The token is not validated.
func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

// Me returns the account the stored token belongs to
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	resp, err := c.Request(ctx, mePath)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := decodeResult(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set(requestIDHeader, newRequestID())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func newRequestID() string {
	id := ulid.Make().String()
	assert.Length(id, ulid.EncodedSize)
	return id
}

func isOK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// decodeBody decodes the JSON body into out regardless of status.
// A nil out discards the body; otherwise an empty body is ErrEmptyBody.
func decodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyBody
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeResult is decodeBody for typed endpoints: non-2xx becomes an *APIError
func decodeResult(resp *http.Response, out any) error {
	if !isOK(resp) {
		defer resp.Body.Close()
		return newAPIError(resp, fallbackRequestMessage)
	}
	return decodeBody(resp, out)
}
