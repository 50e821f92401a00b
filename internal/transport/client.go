// Package transport fetches remote documents over HTTP.
package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/logging"
)

// Client is a resty-backed HTTP client with optional authentication.
type Client struct {
	http  *resty.Client
	auth  Authenticator
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithAuth applies auth with token to every request. An empty token
// disables authentication.
func WithAuth(auth Authenticator, token string) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
		c.token = token
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(constants.DefaultHTTPTimeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "inventory"),
		auth: &NoAuth{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetPreRequestHook(func(_ *resty.Client, req *http.Request) error {
		if c.token != "" {
			c.auth.Apply(req, c.token)
		}
		return nil
	})
	return c
}

// Get fetches url and returns the body. Any status other than 200 is an
// *errors.APIError carrying the status and a trimmed body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &errors.APIError{
			Source:   url,
			Endpoint: url,
			Message:  err.Error(),
			Err:      err,
		}
	}

	logging.Ctx(ctx).Debug().
		Str("url", url).
		Int("status", resp.StatusCode()).
		Int("bytes", len(resp.Body())).
		Dur("duration", time.Since(start)).
		Msg("Fetched document")

	if resp.StatusCode() != http.StatusOK {
		return nil, &errors.APIError{
			Source:     url,
			Endpoint:   url,
			StatusCode: resp.StatusCode(),
			Message:    snippet(resp.StatusCode(), resp.String()),
		}
	}
	return resp.Body(), nil
}

func snippet(status int, body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return http.StatusText(status)
	}
	const limit = 200
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
