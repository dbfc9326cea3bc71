package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/topicmap/pkg/buildinfo"
	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/httputil"
)

// Client provides shared HTTP functionality for external API clients.
// It handles response caching, retry logic, status mapping and common
// request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
}

// NewClient creates a Client that caches decoded responses in c under
// namespace for ttl. Headers are applied to every request on top of the
// topicmap User-Agent. A nil cache disables caching.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	h := map[string]string{"User-Agent": buildinfo.UserAgent()}
	for k, v := range headers {
		h[k] = v
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		namespace: namespace,
		ttl:       ttl,
		headers:   h,
	}
}

// SetTimeout replaces the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// Cached returns the cached value for key or runs fetch, retrying transient
// failures, and caches the result. With refresh the cache is not read but
// the fresh result is still stored. fetch must populate v.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	k := c.keyer.HTTPKey(c.namespace, key)
	if !refresh {
		if data, hit, err := c.cache.Get(ctx, k); err == nil && hit {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, k, data, c.ttl)
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return decode(body, v)
}

// PostJSON sends in as a JSON body and decodes the JSON response into out.
// Request-specific headers override client defaults for the same key.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	body, err := c.doRequest(ctx, http.MethodPost, url, payload, h)
	if err != nil {
		return err
	}
	defer body.Close()
	return decode(body, out)
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode response")
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, url string, payload []byte, headers map[string]string) (io.ReadCloser, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "%s %s", method, req.URL.Host)
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, req.URL.Host))
	}

	if err := checkStatus(resp.StatusCode, resp.Body); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// checkStatus maps a response status to a coded error. Rate limits and
// server errors are retryable; the remaining failures are final. body
// supplies the API's error message when it sends one.
func checkStatus(code int, body io.Reader) error {
	if code >= 200 && code < 300 {
		return nil
	}
	msg := fmt.Sprintf("status %d", code)
	if detail := errorDetail(body); detail != "" {
		msg += ": " + detail
	}

	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "%s", msg)
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s", msg)
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(errors.New(errors.ErrCodeRateLimited, "%s", msg))
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s", msg))
	default:
		return errors.New(errors.ErrCodeInvalidInput, "%s", msg)
	}
}

// errorDetail extracts {"error":{"message":...}} from an API error body.
func errorDetail(body io.Reader) string {
	if body == nil {
		return ""
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(body, 64<<10))
	if json.Unmarshal(data, &payload) == nil {
		return payload.Error.Message
	}
	return ""
}
