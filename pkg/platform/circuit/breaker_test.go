package circuit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(opts ...Option) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New("esi", opts...), clock
}

func TestNewBreakerIsClosed(t *testing.T) {
	b, _ := newTestBreaker()
	assert.Equal(t, "esi", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestOutageRunOpensBreaker(t *testing.T) {
	b, _ := newTestBreaker(WithFailureThreshold(3))

	for i := range 2 {
		fallback, change := b.RecordFailure()
		assert.False(t, fallback, "failure %d", i+1)
		assert.False(t, change.Opened)
	}

	fallback, change := b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)
	assert.False(t, b.Allow())

	fallback, change = b.RecordFailure()
	assert.True(t, fallback)
	assert.Equal(t, StateChange{}, change)
}

func TestInterleavedSuccessKeepsBreakerClosed(t *testing.T) {
	b, _ := newTestBreaker(WithFailureThreshold(2))

	for range 5 {
		b.RecordFailure()
		b.RecordSuccess()
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestProbesCloseBreaker(t *testing.T) {
	b, clock := newTestBreaker(WithFailureThreshold(1), WithSuccessThreshold(2), WithCooldown(time.Minute))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	clock.advance(59 * time.Second)
	assert.False(t, b.Allow())
	clock.advance(time.Second)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow(), "second caller waits for the probe")

	primary, change := b.RecordSuccess()
	assert.False(t, primary)
	assert.False(t, change.Closed)

	assert.True(t, b.Allow(), "next probe admitted after the first reported")
	primary, change = b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestOpenBreakerAdmitsOneConcurrentProbe(t *testing.T) {
	b, clock := newTestBreaker(WithFailureThreshold(1), WithCooldown(time.Minute))
	b.RecordFailure()
	clock.advance(time.Minute)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			if b.Allow() {
				admitted.Add(1)
			}
		})
	}
	wg.Wait()
	assert.Equal(t, int32(1), admitted.Load())
}

func TestAbandonedProbeIsReplaced(t *testing.T) {
	b, clock := newTestBreaker(WithFailureThreshold(1), WithCooldown(time.Minute))
	b.RecordFailure()
	clock.advance(time.Minute)
	require.True(t, b.Allow())

	clock.advance(30 * time.Second)
	assert.False(t, b.Allow())
	clock.advance(30 * time.Second)
	assert.True(t, b.Allow())
}

func TestFailedProbeRestartsCooldown(t *testing.T) {
	b, clock := newTestBreaker(WithFailureThreshold(1), WithSuccessThreshold(2), WithCooldown(time.Minute))
	b.RecordFailure()
	clock.advance(time.Minute)
	b.RecordSuccess()

	b.RecordFailure()
	assert.False(t, b.Allow())

	clock.advance(time.Minute)
	b.RecordSuccess()
	assert.True(t, b.IsOpen(), "success count restarts after a failed probe")
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestResetClosesBreaker(t *testing.T) {
	b, _ := newTestBreaker(WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()

	assert.Equal(t, StateClosed, b.State())
	_, change := b.RecordFailure()
	assert.True(t, change.Opened)
}

func TestNonPositiveOptionsKeepDefaults(t *testing.T) {
	b := New("esi", WithFailureThreshold(0), WithSuccessThreshold(-1), WithCooldown(0), WithClock(nil))
	assert.Equal(t, defaultFailureThreshold, b.failureThreshold)
	assert.Equal(t, defaultSuccessThreshold, b.successThreshold)
	assert.Equal(t, defaultCooldown, b.cooldown)
	assert.NotNil(t, b.now)
}

func TestConcurrentRecording(t *testing.T) {
	b := New("esi", WithFailureThreshold(1000))
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			for range 10 {
				b.RecordFailure()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 500, b.failures)
	assert.Equal(t, StateClosed, b.State())
}
