// Package httputil provides HTTP plumbing shared by outbound API clients.
//
//   - [Retry]: retry with exponential backoff for errors marked retryable
//   - [Transport]: an http.RoundTripper that reports requests to the
//     observability hooks
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried, so callers decide
// what is transient. The OpenAI client marks connection failures, 429 and
// 5xx responses as retryable and everything else as final:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
