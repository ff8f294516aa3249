package apiclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

// fakeClock is a settable time source shared between test and client.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func TestWaitUntilFreshImmediate(t *testing.T) {
	client := newTestClient(t, "http://localhost",
		WithTokenProvider(&StaticTokenProvider{}),
		WithPollPolicy(PollPolicy{Attempts: 20, Interval: 500 * time.Millisecond}),
	)

	start := time.Now()
	stillExpired := client.waitUntilFresh(context.Background(), freshToken(t))

	assert.False(t, stillExpired)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "a fresh token must not wait out the poll interval")
}

func TestWaitUntilFreshBudgetExhausted(t *testing.T) {
	metrics := newCountingMetrics()
	client := newTestClient(t, "http://localhost",
		WithTokenProvider(&StaticTokenProvider{}),
		WithMetrics(metrics),
		WithPollPolicy(PollPolicy{Attempts: 3, Interval: time.Millisecond}),
	)

	stillExpired := client.waitUntilFresh(context.Background(), expiredToken(t))

	assert.True(t, stillExpired)
	assert.Equal(t, 3, metrics.count("apiclient_token_poll_total"), "budget is exactly Attempts checks")
}

func TestWaitUntilFreshRecoversMidPoll(t *testing.T) {
	exp := time.Unix(1700000000, 0)
	tok := mintToken(t, jwt.MapClaims{"exp": float64(exp.Unix())})

	// Start the clock after the expiry so the first checks see an expired
	// token, then rewind below it as a stand-in for a refresh landing.
	clock := &fakeClock{now: exp.Add(time.Minute)}

	client := newTestClient(t, "http://localhost",
		WithTokenProvider(&StaticTokenProvider{}),
		WithClock(clock.Now),
		WithPollPolicy(PollPolicy{Attempts: 50, Interval: time.Millisecond}),
	)

	go func() {
		time.Sleep(5 * time.Millisecond)
		clock.Set(exp.Add(-time.Minute))
	}()

	stillExpired := client.waitUntilFresh(context.Background(), tok)
	assert.False(t, stillExpired)
}

func TestWaitUntilFreshContextCancelled(t *testing.T) {
	client := newTestClient(t, "http://localhost",
		WithTokenProvider(&StaticTokenProvider{}),
		WithPollPolicy(PollPolicy{Attempts: 20, Interval: 100 * time.Millisecond}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	stillExpired := client.waitUntilFresh(ctx, expiredToken(t))

	assert.True(t, stillExpired, "a cancelled wait counts as still expired")
	assert.Less(t, time.Since(start), time.Second)
}
