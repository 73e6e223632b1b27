package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdmirror"
)

// Ensure LoggingRobotsPolicy implements mdmirror.RobotsPolicy.
var _ mdmirror.RobotsPolicy = (*LoggingRobotsPolicy)(nil)

// LoggingRobotsPolicy wraps a RobotsPolicy with debug logging. Evaluate is
// called for every discovered link, so entries are logged at debug level.
type LoggingRobotsPolicy struct {
	next   mdmirror.RobotsPolicy
	logger *slog.Logger
}

// NewLoggingRobotsPolicy creates a new LoggingRobotsPolicy.
func NewLoggingRobotsPolicy(next mdmirror.RobotsPolicy, logger *slog.Logger) *LoggingRobotsPolicy {
	return &LoggingRobotsPolicy{next: next, logger: logger}
}

// Evaluate delegates to the wrapped policy and logs the lookup.
func (p *LoggingRobotsPolicy) Evaluate(ctx context.Context, origin, userAgent string) (rules mdmirror.RobotsRules) {
	defer func(begin time.Time) {
		_, allowAll := rules.(mdmirror.AllowAll)
		p.logger.Debug("robots",
			"origin", origin,
			"agent", userAgent,
			"allow_all", allowAll,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.Evaluate(ctx, origin, userAgent)
}
