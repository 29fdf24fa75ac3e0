// Package api is the single request pipeline every domain service routes
// through: it attaches the bearer credential, normalizes failures into a
// uniform error shape, and on a 401 transparently attempts one token
// refresh before retrying the original request once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flexmedia-fm/autopass-console/token"
)

const refreshPath = "/auth/refresh"

// Client is the shared authenticated HTTP client.
type Client struct {
	baseURL string
	httpc   *http.Client
	bare    *http.Client // refresh calls bypass the interceptor
	tokens  *token.Store
	log     zerolog.Logger
	verbose bool

	coalesce      bool
	refreshMu     sync.Mutex
	onAuthFailure func()
}

// Option defines a function type to modify a Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpc.Timeout = d
		c.bare.Timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithVerbose enables request/response logging.
func WithVerbose(verbose bool) Option {
	return func(c *Client) { c.verbose = verbose }
}

// WithCoalescedRefresh lets a request that 401ed while another request was
// refreshing reuse the rotated access token instead of issuing its own
// refresh call. Off by default: each 401 then refreshes independently,
// matching the web console's single-flight-per-request behavior.
func WithCoalescedRefresh(coalesce bool) Option {
	return func(c *Client) { c.coalesce = coalesce }
}

// WithAuthFailure registers the forced-logout hook, invoked after a failed
// or impossible refresh once the tokens have been cleared. It is the
// client-side equivalent of redirecting to the login page.
func WithAuthFailure(fn func()) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// New creates a client for the given API base URL.
func New(baseURL string, tokens *token.Store, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
		bare:    &http.Client{Timeout: 10 * time.Second},
		tokens:  tokens,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, false)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, false)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, false)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out, false)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, retried bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "encode request body: " + err.Error()}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	access, hasToken := c.tokens.AccessToken()
	if hasToken {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	if c.verbose {
		c.log.Debug().
			Str("method", method).
			Str("url", u).
			Bool("hasToken", hasToken).
			Bool("retry", retried).
			Msg("api request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("url", u).Msg("api request failed")
		return &Error{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if c.verbose {
		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("url", u).
			Msg("api response")
	}

	if resp.StatusCode == http.StatusUnauthorized && !retried {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return c.refreshAndRetry(ctx, method, path, query, body, out, access)
	}

	if resp.StatusCode >= 400 {
		return c.errorFrom(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: "decode response body: " + err.Error(), Status: resp.StatusCode}
	}
	return nil
}

// refreshAndRetry implements the single-retry policy: the original request
// is re-issued at most once, and the retry's outcome — even another 401 —
// is returned to the caller as-is.
func (c *Client) refreshAndRetry(ctx context.Context, method, path string, query url.Values, body, out any, staleAccess string) error {
	refresh, ok := c.tokens.RefreshToken()
	if !ok {
		c.tokens.ClearTokens()
		c.authFailed()
		return &Error{Message: "session expired", Status: http.StatusUnauthorized, Code: "SESSION_EXPIRED"}
	}

	c.refreshMu.Lock()
	if c.coalesce {
		if current, ok := c.tokens.AccessToken(); ok && current != staleAccess {
			c.refreshMu.Unlock()
			return c.do(ctx, method, path, query, body, out, true)
		}
	}

	pair, err := c.refreshTokens(ctx, refresh)
	if err != nil {
		c.refreshMu.Unlock()
		c.log.Warn().Err(err).Msg("token refresh failed, clearing session")
		c.tokens.ClearTokens()
		c.authFailed()
		return err
	}
	if pair.RefreshToken != "" {
		c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken, true)
	} else {
		c.tokens.UpdateAccessToken(pair.AccessToken)
	}
	c.refreshMu.Unlock()

	return c.do(ctx, method, path, query, body, out, true)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refreshTokens calls the refresh endpoint on a bare client so a 401 from
// the refresh endpoint itself can never recurse into another refresh.
func (c *Client) refreshTokens(ctx context.Context, refreshToken string) (refreshResponse, error) {
	data, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return refreshResponse{}, &Error{Message: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(data))
	if err != nil {
		return refreshResponse{}, &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.bare.Do(req)
	if err != nil {
		return refreshResponse{}, &Error{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return refreshResponse{}, c.errorFrom(resp)
	}
	var pair refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return refreshResponse{}, &Error{Message: "decode refresh response: " + err.Error(), Status: resp.StatusCode}
	}
	if pair.AccessToken == "" {
		return refreshResponse{}, &Error{Message: "refresh response missing access token", Status: resp.StatusCode}
	}
	return pair, nil
}

func (c *Client) errorFrom(resp *http.Response) error {
	apiErr := &Error{
		Message: http.StatusText(resp.StatusCode),
		Status:  resp.StatusCode,
	}
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		apiErr.Code = body.Code
	}
	return apiErr
}

func (c *Client) authFailed() {
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}
