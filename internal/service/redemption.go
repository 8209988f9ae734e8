package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/gophcheck-server/internal/digest"
	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

const auditTimeout = 5 * time.Second

// RedemptionLimits are the per-window attempt limits applied before a code is looked up.
type RedemptionLimits struct {
	PerIP      int
	PerSession int
}

// Redemption consumes one-time access codes on behalf of authenticated staff sessions.
type Redemption struct {
	codes    model.CodeStore
	attempts model.AttemptStore
	limiter  *Limiter
	hasher   *digest.Hasher
	limits   RedemptionLimits
	logger   *logger.Logger
}

func NewRedemption(
	codes model.CodeStore,
	attempts model.AttemptStore,
	limiter *Limiter,
	hasher *digest.Hasher,
	limits RedemptionLimits,
	logger *logger.Logger,
) *Redemption {
	return &Redemption{
		codes:    codes,
		attempts: attempts,
		limiter:  limiter,
		hasher:   hasher,
		limits:   limits,
		logger:   logger,
	}
}

// Redeem validates raw, applies the rate limits and consumes the matching code at most once.
// Not found and already used are reported the same way.
func (r *Redemption) Redeem(ctx context.Context, raw, sessionID, ip string) (model.RedeemResult, error) {
	if sessionID == "" {
		return model.RedeemResult{}, model.ErrUnauthorized
	}

	code := digest.Normalize(raw)
	if !digest.ValidFormat(code) {
		r.logger.Debug("Redemption service: rejected malformed code",
			"session_id", sessionID,
			"ip", ip)
		return model.RedeemResult{}, model.ErrInvalidFormat
	}

	decision := r.limiter.Check(ctx,
		model.LimitRule{Scope: model.ScopeIP, Identity: ip, Limit: r.limits.PerIP},
		model.LimitRule{Scope: model.ScopeSession, Identity: sessionID, Limit: r.limits.PerSession},
	)
	switch decision.Verdict {
	case Locked:
		r.logger.Info("Redemption service: attempt rejected by rate limit",
			"session_id", sessionID,
			"ip", ip)
		return model.RedeemResult{}, model.ErrRateLimited
	case Indeterminate:
		r.logger.Warn("Redemption service: rate limit unavailable, continuing",
			"session_id", sessionID,
			"ip", ip,
			"error", decision.Err.Error())
	}

	codeHash := r.hasher.Hash(code)

	consumed, err := r.codes.Consume(ctx, codeHash)

	r.audit(ctx, model.Attempt{
		SessionID: sessionID,
		IP:        ip,
		CodeHash:  codeHash,
		Success:   consumed && err == nil,
		CreatedAt: time.Now().UTC(),
	})

	if err != nil {
		r.logger.Error("Redemption service: failed to consume code",
			"session_id", sessionID,
			"ip", ip,
			"error", err.Error())
		return model.RedeemResult{}, fmt.Errorf("%w: consume code: %v", model.ErrBackendUnavailable, err)
	}

	r.logger.Info("Redemption service: code checked",
		"session_id", sessionID,
		"ip", ip,
		"valid", consumed)

	return model.RedeemResult{Valid: consumed}, nil
}

// audit writes the attempt on a context that outlives the request. Failures are only logged.
func (r *Redemption) audit(ctx context.Context, attempt model.Attempt) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	if err := r.attempts.Record(ctx, attempt); err != nil {
		r.logger.Error("Redemption service: failed to record attempt",
			"session_id", attempt.SessionID,
			"ip", attempt.IP,
			"error", err.Error())
	}
}
