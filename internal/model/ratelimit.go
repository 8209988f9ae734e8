package model

import (
	"context"
	"time"
)

// Rate limit scopes.
const (
	ScopeIP      = "ip"
	ScopeSession = "session"
	ScopeLogin   = "login"
)

// CounterStore holds fixed-window counters with lockout.
type CounterStore interface {
	// Bump increments the counter for key in the window starting at windowStart.
	// When the post-increment count exceeds limit the key is locked until now+lock.
	// While locked the counter is left untouched and the lock is reported.
	Bump(ctx context.Context, key string, windowStart, now time.Time, limit int, lock time.Duration) (Counter, error)
}

// Counter is the state of a rate limit key after a bump.
type Counter struct {
	Count     int
	Locked    bool
	LockUntil *time.Time
}

// LimitRule describes one identity checked against one limit.
type LimitRule struct {
	Scope    string
	Identity string
	Limit    int
}

// Key returns the counter key for the rule.
func (r LimitRule) Key() string {
	return r.Scope + ":" + r.Identity
}
