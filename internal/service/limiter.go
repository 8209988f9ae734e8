package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

// Verdict is the outcome of a limiter check.
type Verdict int

const (
	// NotLocked means every rule was counted and none is locked.
	NotLocked Verdict = iota
	// Locked means at least one rule is locked.
	Locked
	// Indeterminate means a counter could not be read and nothing was found locked.
	Indeterminate
)

func (v Verdict) String() string {
	switch v {
	case NotLocked:
		return "not_locked"
	case Locked:
		return "locked"
	case Indeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// Decision is a limiter verdict together with the store error behind an Indeterminate one.
type Decision struct {
	Verdict Verdict
	Err     error
}

// Limiter applies fixed-window limits with lockout on top of a CounterStore.
type Limiter struct {
	store  model.CounterStore
	window time.Duration
	lock   time.Duration
	now    func() time.Time
	logger *logger.Logger
}

func NewLimiter(store model.CounterStore, window, lock time.Duration, logger *logger.Logger) *Limiter {
	return &Limiter{
		store:  store,
		window: window,
		lock:   lock,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source. It is meant for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Check counts one attempt against every rule. All rules share the same window key.
func (l *Limiter) Check(ctx context.Context, rules ...model.LimitRule) Decision {
	now := l.now().UTC()
	windowStart := now.Truncate(l.window)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		locked bool
		errs   []error
	)
	for _, rule := range rules {
		wg.Add(1)
		go func(rule model.LimitRule) {
			defer wg.Done()

			counter, err := l.store.Bump(ctx, rule.Key(), windowStart, now, rule.Limit, l.lock)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", rule.Scope, err))
				return
			}
			if counter.Locked {
				l.logger.Info("Limiter service: key is locked",
					"scope", rule.Scope,
					"count", counter.Count)
				locked = true
			}
		}(rule)
	}
	wg.Wait()

	switch {
	case locked:
		return Decision{Verdict: Locked}
	case len(errs) > 0:
		return Decision{Verdict: Indeterminate, Err: errors.Join(errs...)}
	default:
		return Decision{Verdict: NotLocked}
	}
}
