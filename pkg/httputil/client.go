package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/coauthornet/pkg/cache"
	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/observability"
)

const (
	defaultTimeout = 10 * time.Second
	// maxBody caps a fetched payload.
	maxBody = 64 << 20
)

// Client fetches graph payloads over HTTP(S). Responses are cached by URL
// and transient failures are retried.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	headers map[string]string
	backoff Backoff
}

// NewClient returns a client backed by c (a NullCache when nil). Entries
// live for ttl; headers are sent with every request.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		cache:   c,
		keyer:   cache.NewDefaultKeyer(),
		ttl:     ttl,
		headers: headers,
		backoff: DefaultBackoff,
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithRetry sets the attempt count and the initial backoff delay. The
// delay cap of [DefaultBackoff] is kept.
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	c.backoff.Attempts, c.backoff.Delay = attempts, delay
	return c
}

// Fetch returns the body at rawURL, from cache unless refresh is set.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	key := c.keyer.SourceKey(rawURL)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "source")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	var body []byte
	err := c.backoff.Do(ctx, func() error {
		var err error
		body, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "source", len(body))
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "request %s", rawURL)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(rawURL, resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	return data, nil
}

func checkStatus(rawURL string, resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: status %d", rawURL, code)
	case code == http.StatusTooManyRequests:
		after := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		return RetryAfter(errors.New(errors.ErrCodeRateLimited, "%s: status %d", rawURL, code), after)
	case code >= 500:
		return Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code)
	}
}

func splitURL(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}

