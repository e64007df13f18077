package connection

import (
	"context"
	"time"
)

// RetryOptions controls reconnect backoff. This lives on the
// connections, not the factory; creating a connection never dials.
// MaxRetries <= 0 means a single attempt with no backoff.
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func retryConnect(ctx context.Context, opts RetryOptions, connectFn func(context.Context) error) error {
	attempts := opts.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	delay := opts.BaseDelay
	if delay == 0 {
		delay = time.Second // default
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = connectFn(ctx)
		if err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if delay > opts.MaxDelay && opts.MaxDelay > 0 {
				delay = opts.MaxDelay
			}
		}
	}
	return err
}
