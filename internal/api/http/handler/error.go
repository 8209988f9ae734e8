package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/gophcheck-server/internal/model"
)

const (
	msgBadRequest     = "bad request"
	msgInvalidFormat  = "invalid format"
	msgUnauthorized   = "unauthorized"
	msgInvalidCode    = "invalid credential"
	msgRateLimited    = "rate limit exceeded, try again later"
	msgInternalServer = "internal server error"
)

// mapError converts a domain error to a status code and a client-safe message.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidFormat):
		return http.StatusBadRequest, msgInvalidFormat
	case errors.Is(err, model.ErrInvalidCredential):
		return http.StatusUnauthorized, msgInvalidCode
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrInvalidToken):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, model.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	default:
		return http.StatusInternalServerError, msgInternalServer
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
