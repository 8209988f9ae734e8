package model

import (
	"context"
	"time"
)

// CodeStore performs single-use consumption of provisioned access codes.
type CodeStore interface {
	// Consume atomically flips an active code with the given digest to inactive.
	// It reports false when no active code matches.
	Consume(ctx context.Context, digest string) (bool, error)
	Create(ctx context.Context, digest string) error
}

// AttemptStore appends redemption audit rows.
type AttemptStore interface {
	Record(ctx context.Context, attempt Attempt) error
}

// Attempt is an audit row written for every redemption that reached the code store.
type Attempt struct {
	SessionID string
	IP        string
	CodeHash  string
	Success   bool
	CreatedAt time.Time
}

// RedeemResult is the caller-visible outcome of a redemption.
type RedeemResult struct {
	Valid bool `json:"valid"`
}
