// Package retry provides exponential backoff retry logic for transient
// failures against remote endpoints: the Hetzner Cloud API, the cluster
// apiserver, and SSH sessions into rescue systems.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy controls how often and how long an operation is retried.
type Policy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int
	// InitialDelay is the wait after the first failure.
	InitialDelay time.Duration
	// MaxDelay caps the exponentially growing delay.
	MaxDelay time.Duration
	// Multiplier scales the delay after each failed attempt.
	Multiplier float64
}

// DefaultPolicy suits short API calls against the cloud provider.
var DefaultPolicy = Policy{
	Attempts:     6,
	InitialDelay: 1 * time.Second,
	MaxDelay:     30 * time.Second,
	Multiplier:   2.0,
}

// SlowPolicy suits operations that legitimately take a while to become
// possible, like the first SSH dial into a rebooting machine.
var SlowPolicy = Policy{
	Attempts:     10,
	InitialDelay: 5 * time.Second,
	MaxDelay:     60 * time.Second,
	Multiplier:   1.5,
}

// Do runs op under the policy, sleeping between failed attempts with
// exponential backoff. Context cancellation is honored both during the
// wait and before each attempt. Errors wrapped with [Permanent] stop
// the retry loop immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("aborted before attempt %d: %w", attempt, err)
		}

		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if attempt == p.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("aborted after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", p.Attempts, lastErr)
}

// Do runs op under [DefaultPolicy].
func Do(ctx context.Context, op func() error) error {
	return DefaultPolicy.Do(ctx, op)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped
// error unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
