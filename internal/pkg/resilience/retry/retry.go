// Package retry provides a configurable retry mechanism for operations that
// may fail temporarily. It wraps the retry-go package from Avast and exposes
// a small interface with functional options.
//
// Unlike a backoff-oriented retrier, the default here is immediate retry with
// no delay between attempts: the expected recovery mechanism is failing over
// to another replica, not waiting for the same one to heal.
package retry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry defines the interface for retry operations.
type Retry interface {
	// Execute runs the given function with the configured retry logic.
	// It returns nil as soon as one attempt succeeds, the last error once
	// all attempts are spent, or the context error if ctx is done.
	//
	// An error wrapped with Unrecoverable stops the attempt sequence
	// immediately.
	Execute(ctx context.Context, operation func() error) error
}

// config holds internal settings for the retry mechanism.
type config struct {
	attempts    uint          // maximum number of attempts, including the first
	delay       time.Duration // fixed delay between attempts
	lastErrOnly bool          // whether to return only the last error
}

// Option defines a functional option for configuring the retry mechanism.
type Option func(*config)

// retrier implements the Retry interface using the retry-go package.
type retrier struct {
	cfg config
}

var _ Retry = (*retrier)(nil)

// New creates a Retry implementation configured with the provided options.
//
// Default configuration:
//   - attempts:    1 (no retry)
//   - delay:       0 (immediate retry)
//   - lastErrOnly: true
func New(opts ...Option) Retry {
	cfg := config{
		attempts:    1,
		delay:       0,
		lastErrOnly: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// Execute implements the Retry interface.
func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(r.cfg.lastErrOnly),
		retry.Context(ctx),
	}

	return retry.Do(operation, options...)
}

// Unrecoverable marks err as terminal so Execute stops retrying and returns
// it directly. errors.Is and errors.As still see through the wrapper.
func Unrecoverable(err error) error {
	return retry.Unrecoverable(err)
}

// WithAttempts sets the maximum number of attempts, including the initial
// one. Values below 1 are treated as 1; attempting zero times is never
// meaningful and retry-go would interpret 0 as unlimited.
func WithAttempts(n uint) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.attempts = n
	}
}

// WithDelay sets a fixed delay between attempts. Default: 0.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithLastErrorOnly sets whether Execute returns only the error from the
// final attempt (true, the default) or all attempt errors combined.
func WithLastErrorOnly(b bool) Option {
	return func(c *config) {
		c.lastErrOnly = b
	}
}
