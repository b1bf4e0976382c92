package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Refresher mints a new access token after a 401 on an authenticated call.
// The session manager implements it; the client never refreshes on its own.
type Refresher interface {
	RefreshAccessToken(ctx context.Context) (string, error)
}

// RefresherFunc adapts a function to the Refresher interface.
type RefresherFunc func(ctx context.Context) (string, error)

func (f RefresherFunc) RefreshAccessToken(ctx context.Context) (string, error) { return f(ctx) }

// Client is the HTTP core shared by the auth and RBAC APIs. It holds no
// credential state: the token travels with each request, so two callers with
// different tokens can share one Client.
type Client struct {
	baseURL   string
	http      *http.Client
	refresher Refresher
	log       zerolog.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// AuthScheme picks the Authorization scheme for a token: three dot-separated
// segments look like a JWT and get "Bearer", anything else is treated as a
// DRF-style opaque token and gets "Token". The backend does not declare the
// scheme, so this stays a documented guess, not a contract.
func AuthScheme(token string) string {
	if len(strings.Split(token, ".")) == 3 {
		return "Bearer"
	}
	return "Token"
}

// Do issues one logical operation against an ordered endpoint list, walking
// the fallbacks per doFallback. A 401 on an authenticated call triggers at
// most one refresh-then-replay: the replay goes through doFallback again
// with the new token, and a failed refresh surfaces the original error.
func (c *Client) Do(ctx context.Context, method string, eps Endpoints, token string, body, out interface{}) error {
	err := c.doFallback(ctx, method, eps, token, body, out)
	if err == nil {
		return nil
	}

	apiErr, ok := apiError(err)
	if !ok || token == "" || c.refresher == nil {
		return err
	}
	if apiErr.Status != http.StatusUnauthorized {
		return err
	}

	newToken, refreshErr := c.refresher.RefreshAccessToken(ctx)
	if refreshErr != nil {
		c.log.Debug().Err(refreshErr).Msg("token refresh failed, surfacing original 401")
		return err
	}

	return c.doFallback(ctx, method, eps, newToken, body, out)
}

// do issues a single HTTP request and normalizes the outcome. out may be nil
// for operations whose response body is irrelevant.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", AuthScheme(token)+" "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody, token != "")
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
