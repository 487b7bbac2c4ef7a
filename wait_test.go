package composetest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixturelab/composetest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// succeedOn returns a check that reports ready on the n-th invocation
// (never, for n == 0) and a counter of invocations so far.
func succeedOn(n int) (composetest.CheckFunc, *int) {
	calls := 0
	return func(context.Context) bool {
		calls++
		return n > 0 && calls >= n
	}, &calls
}

func TestWaitUntilReadyImmediateSuccess(t *testing.T) {
	check, calls := succeedOn(1)

	start := time.Now()
	err := composetest.WaitUntilReady(context.Background(), check, time.Second, time.Second)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	// An immediately ready service must not incur the pause.
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestWaitUntilReadyNeverReady(t *testing.T) {
	check, calls := succeedOn(0)

	start := time.Now()
	err := composetest.WaitUntilReady(context.Background(), check, 100*time.Millisecond, 10*time.Millisecond)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, composetest.ErrTimeoutExceeded)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.GreaterOrEqual(t, *calls, 1)
}

func TestWaitUntilReadySucceedsAfterRetries(t *testing.T) {
	const pause = 20 * time.Millisecond
	check, calls := succeedOn(5)

	start := time.Now()
	err := composetest.WaitUntilReady(context.Background(), check, 5*time.Second, pause)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 5, *calls)
	// Four not-ready attempts mean four pauses before the fifth check.
	assert.GreaterOrEqual(t, elapsed, 4*pause)
}

func TestWaitUntilReadyThirdAttempt(t *testing.T) {
	check, calls := succeedOn(3)

	start := time.Now()
	err := composetest.WaitUntilReady(context.Background(), check, time.Second, 100*time.Millisecond)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, *calls)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestWaitUntilReadyPauseLongerThanTimeout(t *testing.T) {
	check, calls := succeedOn(0)

	start := time.Now()
	err := composetest.WaitUntilReady(context.Background(), check, 50*time.Millisecond, 100*time.Millisecond)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, composetest.ErrTimeoutExceeded)
	// The first attempt runs (elapsed 0 < timeout), then one full pause is
	// slept before the deadline comparison fails.
	assert.Equal(t, 1, *calls)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestWaitUntilReadyZeroTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		check, calls := succeedOn(1)

		start := time.Now()
		err := composetest.WaitUntilReady(context.Background(), check, timeout, 100*time.Millisecond)
		elapsed := time.Since(start)

		// The deadline comparison runs before the first attempt, so no
		// check is ever invoked.
		require.ErrorIs(t, err, composetest.ErrTimeoutExceeded)
		assert.Equal(t, 0, *calls)
		assert.Less(t, elapsed, 50*time.Millisecond)
	}
}

func TestWaitUntilReadyCancelledDuringPause(t *testing.T) {
	check, calls := succeedOn(0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := composetest.WaitUntilReady(ctx, check, time.Minute, time.Minute)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, composetest.ErrTimeoutExceeded)
	assert.Equal(t, 1, *calls)
	assert.Less(t, elapsed, time.Second)
}

func TestWaitUntilReadyAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	check, _ := succeedOn(0)
	err := composetest.WaitUntilReady(ctx, check, time.Minute, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}

// ---- Probe ----

type stubChecker struct{ err error }

func (s stubChecker) Check(context.Context) error { return s.err }

func TestProbeAbsorbsErrors(t *testing.T) {
	ready := composetest.Probe(stubChecker{}, quietLogger())
	assert.True(t, ready(context.Background()))

	notReady := composetest.Probe(stubChecker{err: errors.New("connection refused")}, quietLogger())
	assert.False(t, notReady(context.Background()))
}

func TestProbeNilLogger(t *testing.T) {
	ready := composetest.Probe(stubChecker{}, nil)
	assert.True(t, ready(context.Background()))
}
