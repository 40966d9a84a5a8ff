package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend unavailable")

// fakeClock 手动推进的时钟,避免测试里sleep
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(s Settings) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("snapshot", s)
	cb.now = clock.Now
	cb.resetWindow(clock.Now())
	return cb, clock
}

func fail(context.Context) error    { return errBackend }
func succeed(context.Context) error { return nil }

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb, _ := newTestBreaker(Settings{Timeout: time.Second})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(ctx, succeed))
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Settings{Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(3)})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, fail), errBackend)
	}
	require.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断打开时不应执行请求")
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	ctx := context.Background()

	t.Run("探测成功后关闭", func(t *testing.T) {
		cb, clock := newTestBreaker(Settings{Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(1)})
		_ = cb.Execute(ctx, fail)
		require.Equal(t, StateOpen, cb.State())

		clock.Advance(2 * time.Second)
		require.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(ctx, succeed))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败后重新打开", func(t *testing.T) {
		cb, clock := newTestBreaker(Settings{Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(1)})
		_ = cb.Execute(ctx, fail)
		clock.Advance(2 * time.Second)

		assert.ErrorIs(t, cb.Execute(ctx, fail), errBackend)
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("半开状态限制探测数量", func(t *testing.T) {
		cb, clock := newTestBreaker(Settings{Timeout: time.Second, MaxRequests: 1, ReadyToTrip: ConsecutiveFailures(1)})
		_ = cb.Execute(ctx, fail)
		clock.Advance(2 * time.Second)

		release := make(chan struct{})
		started := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- cb.Execute(ctx, func(context.Context) error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		assert.ErrorIs(t, cb.Execute(ctx, succeed), ErrOpenState)
		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreaker_IntervalResetsCounts(t *testing.T) {
	cb, clock := newTestBreaker(Settings{Interval: 10 * time.Second, Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(3)})
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	clock.Advance(11 * time.Second)
	_ = cb.Execute(ctx, fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_CancelledCallsAreNotFailures(t *testing.T) {
	cb, _ := newTestBreaker(Settings{Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(1)})

	err := cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Counts().Requests)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(Settings{
		Timeout:     time.Second,
		ReadyToTrip: ConsecutiveFailures(2),
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	clock.Advance(2 * time.Second)
	_ = cb.Execute(ctx, succeed)

	assert.Equal(t, []string{
		"snapshot:closed->open",
		"snapshot:open->half_open",
		"snapshot:half_open->closed",
	}, transitions)
}

func TestCounts_FailureRate(t *testing.T) {
	assert.Zero(t, Counts{}.FailureRate())
	assert.InDelta(t, 0.25, Counts{Requests: 4, TotalFailures: 1}.FailureRate(), 1e-9)
}
