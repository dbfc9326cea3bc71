package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/topicmap/pkg/observability"
)

// Transport reports every round trip to [observability.HTTP]. A nil Base
// uses [http.DefaultTransport].
type Transport struct {
	Base http.RoundTripper
}

// NewClient returns an http.Client with the given timeout whose requests
// are reported through [Transport].
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: &Transport{}}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
