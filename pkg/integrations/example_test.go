package integrations_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/integrations"
)

func ExampleClient_Cached() {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]string{"subject": "Biology"})
	}))
	defer srv.Close()

	client := integrations.NewClient(cache.NewMemoryCache(), "example:", time.Hour, nil)
	ctx := context.Background()

	for range 2 {
		var out struct{ Subject string }
		err := client.Cached(ctx, "biology-notes", false, &out, func() error {
			return client.PostJSON(ctx, srv.URL, nil, map[string]string{"doc": "notes"}, &out)
		})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(out.Subject)
	}
	fmt.Println("requests:", calls)
	// Output:
	// Biology
	// Biology
	// requests: 1
}
