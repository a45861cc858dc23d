package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// Backoff describes how often and how patiently a failing call is retried.
// The delay doubles after every retryable failure, up to Max.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	Max      time.Duration // zero means no cap
}

// DefaultBackoff tries three times, waiting one and then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, Max: 30 * time.Second}

// RetryableError marks a failure as transient. After, when positive, is the
// minimum wait the remote asked for (a Retry-After header).
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryAfter is [Retryable] with a server-requested minimum wait.
func RetryAfter(err error, after time.Duration) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, After: after}
}

// IsRetryable reports whether err carries a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Do calls fn until it succeeds, fails permanently or runs out of attempts.
// Only errors carrying a [RetryableError] are retried. It returns the last
// error, or ctx.Err() when cancelled while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	for i := 0; ; i++ {
		err := fn()
		var re *RetryableError
		if err == nil || !errors.As(err, &re) || i == attempts-1 {
			return err
		}

		wait := max(delay, re.After)
		if b.Max > 0 {
			wait = min(wait, b.Max)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

// Retry is Backoff{attempts, delay, 0}.Do(ctx, fn).
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP
// date. It returns zero when the header is absent or unusable.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}
