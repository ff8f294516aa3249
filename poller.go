package apiclient

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// PollPolicy controls how long a request waits for a token that is mid
// refresh. The default budget is 20 checks 500ms apart, ten seconds in the
// worst case.
type PollPolicy struct {
	// Attempts is the number of liveness checks before giving up.
	Attempts uint64

	// Interval is the fixed delay between checks.
	Interval time.Duration
}

var defaultPollPolicy = PollPolicy{
	Attempts: 20,
	Interval: 500 * time.Millisecond,
}

var errStillExpired = errors.New("token still expired")

// waitUntilFresh re-checks tok's liveness until it is fresh or the poll
// budget runs out, and reports whether the token is still expired. A token
// held in memory may be mid-rotation by a concurrent refresh; re-reading the
// expiry on a fixed cadence bridges that race without a push signal from the
// token provider. Cancelling ctx stops the wait and counts as still expired.
func (c *Client) waitUntilFresh(ctx context.Context, tok string) bool {
	attempts := c.poll.Attempts
	if attempts == 0 {
		attempts = 1
	}

	b := retry.WithMaxRetries(attempts-1, retry.NewConstant(c.poll.Interval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if c.decoder.IsExpired(tok) {
			c.metrics.IncCounter("apiclient_token_poll_total", nil)
			return retry.RetryableError(errStillExpired)
		}
		return nil
	})
	if err != nil {
		c.logger.Debugf("token still expired after %d checks: %v", attempts, err)
		return true
	}
	return false
}
