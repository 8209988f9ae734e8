package model

import "errors"

var (
	ErrInvalidFormat        = errors.New("invalid format")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidToken         = errors.New("invalid session token")
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrBackendUnavailable   = errors.New("backend unavailable")
	ErrConfigurationMissing = errors.New("configuration missing")
)
