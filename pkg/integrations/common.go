package integrations

import (
	"net/http"
	"time"

	"github.com/matzehuels/topicmap/pkg/httputil"
)

const httpTimeout = 60 * time.Second

// NewHTTPClient creates an instrumented HTTP client with the default timeout.
func NewHTTPClient() *http.Client {
	return httputil.NewClient(httpTimeout)
}
