package mdmirror

import "context"

// RobotsPolicy decides crawl permission per origin.
type RobotsPolicy interface {
	// Evaluate returns the rule set for origin ("scheme://host") as seen by
	// userAgent. It never fails: an unreachable or unparseable robots.txt
	// yields rules that allow everything.
	Evaluate(ctx context.Context, origin, userAgent string) RobotsRules
}

// RobotsRules answers allow/disallow questions for one origin.
type RobotsRules interface {
	// Allowed reports whether rawURL may be fetched. Malformed input is allowed.
	Allowed(rawURL string) bool
}

// AllowAll is a RobotsRules that permits every URL.
type AllowAll struct{}

// Allowed always returns true.
func (AllowAll) Allowed(string) bool { return true }
