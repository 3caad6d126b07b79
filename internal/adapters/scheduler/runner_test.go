package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloser struct {
	calls  atomic.Int64
	closed int64
}

func (f *fakeCloser) CloseExpiredWindows(_ context.Context) (int64, error) {
	f.calls.Add(1)
	return f.closed, nil
}

func TestNewRunnerRequiresWindows(t *testing.T) {
	_, err := NewRunner(RunnerOptions{})
	require.Error(t, err)
}

func TestRunTicksAndStops(t *testing.T) {
	closer := &fakeCloser{closed: 2}
	r, err := NewRunner(RunnerOptions{Windows: closer, Interval: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = r.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// Immediate tick plus at least one interval tick.
	assert.GreaterOrEqual(t, closer.calls.Load(), int64(2))
}

func TestRunReturnsNilOnCancel(t *testing.T) {
	closer := &fakeCloser{}
	r, err := NewRunner(RunnerOptions{Windows: closer, Interval: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancellation is graceful shutdown, not a failure.
	assert.NoError(t, r.Run(ctx))
}
