package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/gophcheck-server/internal/mocks"
	"github.com/dtroode/gophcheck-server/internal/model"
	"github.com/dtroode/gophcheck-server/internal/testutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLimiter_Check(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 42, 0, time.UTC)
	windowStart := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lockUntil := now.Add(2 * time.Minute)

	ipRule := model.LimitRule{Scope: model.ScopeIP, Identity: "10.0.0.1", Limit: 30}
	sessionRule := model.LimitRule{Scope: model.ScopeSession, Identity: "sid", Limit: 60}

	tests := []struct {
		name        string
		ipResult    model.Counter
		ipErr       error
		sessResult  model.Counter
		sessErr     error
		wantVerdict Verdict
		wantErr     bool
	}{
		{
			name:        "both counted",
			ipResult:    model.Counter{Count: 3},
			sessResult:  model.Counter{Count: 5},
			wantVerdict: NotLocked,
		},
		{
			name:        "ip locked",
			ipResult:    model.Counter{Count: 31, Locked: true, LockUntil: &lockUntil},
			sessResult:  model.Counter{Count: 5},
			wantVerdict: Locked,
		},
		{
			name:        "session locked",
			ipResult:    model.Counter{Count: 1},
			sessResult:  model.Counter{Count: 61, Locked: true, LockUntil: &lockUntil},
			wantVerdict: Locked,
		},
		{
			name:        "store error",
			ipErr:       errors.New("db down"),
			sessResult:  model.Counter{Count: 1},
			wantVerdict: Indeterminate,
			wantErr:     true,
		},
		{
			name:        "lock wins over error",
			ipErr:       errors.New("db down"),
			sessResult:  model.Counter{Count: 61, Locked: true, LockUntil: &lockUntil},
			wantVerdict: Locked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewCounterStore(t)
			store.On("Bump", mock.Anything, "ip:10.0.0.1", windowStart, now, 30, 2*time.Minute).Return(tt.ipResult, tt.ipErr)
			store.On("Bump", mock.Anything, "session:sid", windowStart, now, 60, 2*time.Minute).Return(tt.sessResult, tt.sessErr)

			limiter := NewLimiter(store, time.Minute, 2*time.Minute, testutil.MakeNoopLogger()).WithClock(fixedClock(now))

			decision := limiter.Check(context.Background(), ipRule, sessionRule)
			assert.Equal(t, tt.wantVerdict, decision.Verdict)
			if tt.wantErr {
				assert.Error(t, decision.Err)
			} else {
				assert.NoError(t, decision.Err)
			}
		})
	}
}

func TestLimiter_LockSurvivesWindowAndExpires(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(testutil.NewMemoryCounterStore(), time.Minute, 2*time.Minute, testutil.MakeNoopLogger()).
		WithClock(func() time.Time { return current })

	rule := model.LimitRule{Scope: model.ScopeIP, Identity: "10.0.0.1", Limit: 2}

	assert.Equal(t, NotLocked, limiter.Check(ctx, rule).Verdict)
	assert.Equal(t, NotLocked, limiter.Check(ctx, rule).Verdict)
	assert.Equal(t, Locked, limiter.Check(ctx, rule).Verdict)

	current = current.Add(61 * time.Second)
	assert.Equal(t, Locked, limiter.Check(ctx, rule).Verdict)

	current = current.Add(60 * time.Second)
	assert.Equal(t, NotLocked, limiter.Check(ctx, rule).Verdict)
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "not_locked", NotLocked.String())
	assert.Equal(t, "locked", Locked.String())
	assert.Equal(t, "indeterminate", Indeterminate.String())
	assert.Equal(t, "verdict(9)", Verdict(9).String())
}
