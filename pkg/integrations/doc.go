// Package integrations provides the shared HTTP client used by external
// API integrations.
//
// [Client] wraps an instrumented http.Client with:
//   - JSON request and response handling
//   - status mapping to coded errors (401/403 UNAUTHORIZED, 429
//     RATE_LIMITED, 5xx NETWORK_ERROR)
//   - retry with exponential backoff for transient failures
//   - response caching via [cache.Cache]
//
// Each external service lives in its own subpackage. The [openai] client
// generates topic trees from documents and course recommendations.
//
// [openai]: github.com/matzehuels/topicmap/pkg/integrations/openai
// [cache.Cache]: github.com/matzehuels/topicmap/pkg/cache.Cache
package integrations
