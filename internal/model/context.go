package model

import "context"

// ContextManager carries request-scoped identity and rendering data.
type ContextManager interface {
	SetSessionIDToContext(ctx context.Context, sessionID string) context.Context
	GetSessionIDFromContext(ctx context.Context) (string, bool)
	SetNonceToContext(ctx context.Context, nonce string) context.Context
	GetNonceFromContext(ctx context.Context) (string, bool)
}
