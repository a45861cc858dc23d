package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/coauthornet/pkg/httputil"
)

func ExampleBackoff_Do() {
	b := httputil.Backoff{Attempts: 3, Delay: time.Millisecond}
	calls := 0
	err := b.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return httputil.Retryable(errors.New("connection reset"))
		}
		return nil
	})
	fmt.Println("calls:", calls)
	fmt.Println("err:", err)
	// Output:
	// calls: 3
	// err: <nil>
}

func ExampleRetry_permanent() {
	calls := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errors.New("bad request")
	})
	fmt.Println("calls:", calls)
	fmt.Println("err:", err)
	// Output:
	// calls: 1
	// err: bad request
}
