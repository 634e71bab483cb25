package session

import (
	"context"
	"time"
)

// beginPolling moves the live job into Processing and starts its poll
// loop. The loop's context is the job's cancellation handle: reset,
// supersession and caller teardown all cancel it.
func (c *Controller) beginPolling(ctx context.Context, jobID string) error {
	c.mu.Lock()

	// A newer submission may have superseded this one while the upload
	// response was in flight.
	if !c.isLiveLocked(jobID) {
		c.mu.Unlock()
		return nil
	}

	pollCtx, cancel := context.WithCancel(ctx)
	c.current.cancel = cancel
	c.state = StateProcessing
	c.log.Info("processing started", "job", jobID, "interval", c.opts.PollInterval)
	c.publishLocked()
	c.mu.Unlock()

	go c.pollLoop(pollCtx, jobID)
	return nil
}

// pollLoop issues a status query on every tick until the job reaches a
// terminal outcome, the attempt ceiling is exhausted, or the job is
// cancelled. The timer runs on wall clock independent of request
// completion, so queries may overlap; responses are reconciled through the
// identity checks in the apply functions, where the last terminal response
// for the live job wins and everything else is a no-op.
func (c *Controller) pollLoop(ctx context.Context, jobID string) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	issued := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if issued >= c.opts.MaxPollAttempts {
				c.applyTimeout(jobID)
				return
			}
			issued++
			c.noteAttempt(jobID, issued)
			go c.queryOnce(ctx, jobID, issued)
		}
	}
}

// queryOnce performs a single status query. Failed attempts and
// still-pending answers are non-fatal; only a completed payload mutates
// state, and only after the identity check.
func (c *Controller) queryOnce(ctx context.Context, jobID string, attempt int) {
	result, err := c.client.Results(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.log.Debug("poll attempt failed", "job", jobID, "attempt", attempt, "error", err)
		return
	}
	if result.Pending {
		return
	}
	c.applyCompleted(jobID, result.Payload)
}
