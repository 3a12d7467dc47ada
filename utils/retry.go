package utils

import (
	"context"
	"time"
)

// RetryPolicy controls how Retry re-invokes a failing operation.
type RetryPolicy[Out any] struct {
	Enabled  bool
	MaxTries int
	Delay    time.Duration
	Backoff  float64
	// Default is returned once every attempt has failed.
	Default Out
}

// DefaultRetryPolicy mirrors the values used for page rank lookups: 3 tries, 1s, x2.
func DefaultRetryPolicy[Out any](def Out) RetryPolicy[Out] {
	return RetryPolicy[Out]{Enabled: true, MaxTries: 3, Delay: time.Second, Backoff: 2, Default: def}
}

// Attempt describes a single try, or the final outcome when Final is set.
type Attempt struct {
	Operation string
	Number    int
	Err       error
	NextDelay time.Duration
	Final     bool
	Succeeded bool
}

// RetryObserver receives every attempt. It must not block for long.
type RetryObserver func(Attempt)

// sleep is swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry wraps op with bounded exponential backoff. When retries are enabled
// failures are swallowed: after the last attempt (or a cancelled wait) the
// policy's Default is returned with a nil error. When disabled op runs once
// and its error propagates unchanged.
func Retry[In, Out any](name string, op func(context.Context, In) (Out, error), policy RetryPolicy[Out], observers ...RetryObserver) func(context.Context, In) (Out, error) {
	notify := func(a Attempt) {
		a.Operation = name
		for _, o := range observers {
			if o != nil {
				o(a)
			}
		}
	}
	return func(ctx context.Context, in In) (Out, error) {
		if !policy.Enabled {
			return op(ctx, in)
		}
		maxTries := policy.MaxTries
		if maxTries < 1 {
			maxTries = 1
		}
		backoff := policy.Backoff
		if backoff <= 0 {
			backoff = 1
		}
		delay := policy.Delay
		var lastErr error
		for try := 1; try <= maxTries; try++ {
			out, err := op(ctx, in)
			lastErr = err
			if err == nil {
				notify(Attempt{Number: try, Final: true, Succeeded: true})
				return out, nil
			}
			if try == maxTries {
				notify(Attempt{Number: try, Err: err})
				break
			}
			notify(Attempt{Number: try, Err: err, NextDelay: delay})
			if serr := sleep(ctx, delay); serr != nil {
				notify(Attempt{Number: try, Err: serr, Final: true})
				return policy.Default, nil
			}
			delay = time.Duration(float64(delay) * backoff)
		}
		notify(Attempt{Number: maxTries, Err: lastErr, Final: true})
		return policy.Default, nil
	}
}
