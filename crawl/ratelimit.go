package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter pauses for a fixed delay before every request. The pause
// does not shrink when the caller spent time elsewhere since the previous
// request, so each fetch is preceded by the full delay.
type DomainLimiter struct {
	delay time.Duration
}

// NewDomainLimiter creates a DomainLimiter that waits delay before each
// request. A zero delay disables waiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	return &DomainLimiter{delay: delay}
}

// Wait blocks for the configured delay.
// Returns an error if the context is canceled before the delay elapses.
func (d *DomainLimiter) Wait(ctx context.Context, _ string) error {
	if d.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
