package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/topicmap/pkg/httputil"
)

func ExampleRetry() {
	calls := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return httputil.Retryable(errors.New("status 503"))
		}
		return nil
	})
	fmt.Println("calls:", calls)
	fmt.Println("error:", err)
	// Output:
	// calls: 3
	// error: <nil>
}

func ExampleRetry_permanent() {
	calls := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errors.New("status 401")
	})
	fmt.Println("calls:", calls)
	fmt.Println("error:", err)
	// Output:
	// calls: 1
	// error: status 401
}
