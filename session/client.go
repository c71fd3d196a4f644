package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"cattlecloud.net/go/websession"
	"cattlecloud.net/go/websession/credentials"
	"github.com/shoenig/go-conceal"
)

// Failures is the receiver of the unauthorized signal. In practice this is
// the one Handler constructed for the process.
type Failures interface {
	Unauthorized(ctx context.Context, rejected *conceal.Text)
}

// Client issues authenticated API requests.
//
// Client performs no retries and no token refresh; it is a detect-and-signal
// boundary in front of the transport.
type Client struct {
	store    *credentials.Store
	failures Failures
	http     *http.Client
	origin   *url.URL
	log      *slog.Logger
	metrics  *Metrics
}

// NewClient creates a Client reading credentials from store and reporting
// 401 responses to failures.
func NewClient(store *credentials.Store, failures Failures, opts ...OptionFunc) *Client {
	options := newOptions(opts)
	return &Client{
		store:    store,
		failures: failures,
		http:     options.httpClient,
		origin:   options.origin,
		log:      options.log,
		metrics:  options.metrics,
	}
}

// Do sends r with the default headers and the stored access credential.
//
// A 401 response signals the Handler and returns an error wrapping
// ErrUnauthorized; the response body is already closed. A failure to get any
// response returns an error wrapping ErrTransport. Every other status is
// returned as an ordinary response.
func (c *Client) Do(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	// work on a copy; the caller may reuse its request
	r = r.Clone(ctx)

	u, err := websession.ResolveURL(c.origin, r.URL.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	r.URL = u
	r.Host = u.Host

	// read the credential immediately before attaching it
	pair := c.store.Get(ctx)
	websession.SetDefaultContentType(r, websession.ContentTypeJSON)
	websession.SetBearerAuth(r, pair.Access)

	response, err := c.http.Do(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, r.Method, u.Path, err)
	}

	if response.StatusCode == http.StatusUnauthorized {
		drain(response)
		c.metrics.rejected()
		c.log.Debug("request rejected as unauthorized", "method", r.Method, "path", u.Path)
		c.failures.Unauthorized(ctx, pair.Access)
		return nil, fmt.Errorf("%w: %s %s", ErrUnauthorized, r.Method, u.Path)
	}

	return response, nil
}

// Get issues an authenticated GET of path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return c.Do(request)
}

// PostJSON issues an authenticated POST of path with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("session: encode request body: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	request.Header.Set("Content-Type", string(websession.ContentTypeJSON))
	return c.Do(request)
}

func drain(response *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4096))
	_ = response.Body.Close()
}
