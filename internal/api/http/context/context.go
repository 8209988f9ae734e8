package context

import (
	"context"
)

type ctxKey string

const (
	sessionIDKey ctxKey = "staff_session_id"
	nonceKey     ctxKey = "csp_nonce"
)

// Manager stores request-scoped values in context.Context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetSessionIDToContext returns a copy of ctx carrying the verified staff session id.
func (m *Manager) SetSessionIDToContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionIDFromContext returns the staff session id set by the gatekeeper.
// An empty value is reported as missing.
func (m *Manager) GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	if !ok || sessionID == "" {
		return "", false
	}
	return sessionID, true
}

// SetNonceToContext returns a copy of ctx carrying the CSP nonce of the current response.
func (m *Manager) SetNonceToContext(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, nonceKey, nonce)
}

// GetNonceFromContext returns the CSP nonce of the current response.
func (m *Manager) GetNonceFromContext(ctx context.Context) (string, bool) {
	nonce, ok := ctx.Value(nonceKey).(string)
	if !ok || nonce == "" {
		return "", false
	}
	return nonce, true
}
