package mock

import (
	"context"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of mdmirror.RobotsPolicy.
type RobotsPolicy struct {
	EvaluateFn func(ctx context.Context, origin, userAgent string) mdmirror.RobotsRules
}

func (p *RobotsPolicy) Evaluate(ctx context.Context, origin, userAgent string) mdmirror.RobotsRules {
	return p.EvaluateFn(ctx, origin, userAgent)
}

var _ mdmirror.RobotsRules = (*RobotsRules)(nil)

// RobotsRules is a mock implementation of mdmirror.RobotsRules.
type RobotsRules struct {
	AllowedFn func(rawURL string) bool
}

func (r *RobotsRules) Allowed(rawURL string) bool {
	return r.AllowedFn(rawURL)
}
