package composetest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrTimeoutExceeded is returned by WaitUntilReady when no successful check
// occurred within the timeout window.
var ErrTimeoutExceeded = errors.New("timeout reached while waiting on service")

// CheckFunc reports whether a service is ready to accept requests.
// Implementations absorb their own transient errors (connection refused,
// reset) and return false instead of failing.
type CheckFunc func(ctx context.Context) bool

// WaitUntilReady invokes check until it returns true, sleeping the fixed
// pause between attempts. The elapsed-time comparison runs before each
// attempt, so a zero or negative timeout fails immediately without invoking
// check at all. Cancelling ctx during the check or the pause returns
// ctx.Err() rather than ErrTimeoutExceeded.
func WaitUntilReady(ctx context.Context, check CheckFunc, timeout, pause time.Duration) error {
	start := time.Now()
	for time.Since(start) < timeout {
		if check(ctx) {
			return nil
		}
		if err := sleepCtx(ctx, pause); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w after %v", ErrTimeoutExceeded, timeout)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Probe adapts a Checker into a CheckFunc: every error is absorbed as
// "not ready yet" and logged at debug level.
func Probe(c Checker, log *slog.Logger) CheckFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context) bool {
		if err := c.Check(ctx); err != nil {
			log.Debug("service not ready yet", "err", err)
			return false
		}
		return true
	}
}
