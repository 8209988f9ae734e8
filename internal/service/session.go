package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

// SessionSigner signs and checks session identifiers.
type SessionSigner interface {
	Sign(id string) (string, error)
	Verify(id, sig string) bool
}

// LoginLimit throttles credential attempts per client IP. A nil Limiter disables it.
type LoginLimit struct {
	Limiter *Limiter
	PerIP   int
}

// Session issues and verifies staff session tokens.
type Session struct {
	signer     SessionSigner
	pin        string
	demoMode   bool
	loginLimit LoginLimit
	logger     *logger.Logger
}

// NewSession creates a Session authority. With an empty pin every non-empty
// credential is accepted, which only happens when demoMode is set.
func NewSession(signer SessionSigner, pin string, demoMode bool, loginLimit LoginLimit, logger *logger.Logger) *Session {
	return &Session{
		signer:     signer,
		pin:        strings.TrimSpace(pin),
		demoMode:   demoMode,
		loginLimit: loginLimit,
		logger:     logger,
	}
}

func (s *Session) Issue(ctx context.Context, credential, ip string) (model.SessionToken, error) {
	if s.loginLimit.Limiter != nil {
		decision := s.loginLimit.Limiter.Check(ctx, model.LimitRule{Scope: model.ScopeLogin, Identity: ip, Limit: s.loginLimit.PerIP})
		switch decision.Verdict {
		case Locked:
			s.logger.Info("Session service: login rejected by rate limit",
				"ip", ip)
			return model.SessionToken{}, model.ErrRateLimited
		case Indeterminate:
			s.logger.Warn("Session service: login rate limit unavailable, continuing",
				"ip", ip,
				"error", decision.Err.Error())
		}
	}

	credential = strings.TrimSpace(credential)
	if credential == "" {
		return model.SessionToken{}, model.ErrInvalidFormat
	}

	if !s.accepts(credential) {
		s.logger.Info("Session service: invalid credential",
			"ip", ip)
		return model.SessionToken{}, model.ErrInvalidCredential
	}

	id := uuid.NewString()
	sig, err := s.signer.Sign(id)
	if err != nil {
		s.logger.Error("Session service: failed to sign session",
			"error", err.Error())
		return model.SessionToken{}, fmt.Errorf("failed to sign session: %w", err)
	}

	s.logger.Info("Session service: session issued",
		"session_id", id,
		"ip", ip)

	return model.SessionToken{ID: id, Value: id + "." + sig}, nil
}

// Verify returns the session id carried by a well-formed, correctly signed token.
func (s *Session) Verify(token string) (string, error) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" || sig == "" || strings.Contains(sig, ".") {
		return "", model.ErrInvalidToken
	}
	if !s.signer.Verify(id, sig) {
		return "", model.ErrInvalidToken
	}
	return id, nil
}

func (s *Session) accepts(credential string) bool {
	if s.pin == "" {
		return s.demoMode
	}
	// Hash both sides so the comparison does not leak the PIN length.
	got := sha256.Sum256([]byte(credential))
	want := sha256.Sum256([]byte(s.pin))
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}
