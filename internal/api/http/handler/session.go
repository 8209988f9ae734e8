package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 4 << 10

var validate = validator.New()

// SessionService issues staff sessions.
type SessionService interface {
	Issue(ctx context.Context, credential, ip string) (model.SessionToken, error)
}

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Secure bool
}

// Session handles staff login and logout.
type Session struct {
	sessionService SessionService
	cookie         CookieOptions
	logger         *logger.Logger
}

// NewSession creates a new Session handler.
func NewSession(sessionService SessionService, cookie CookieOptions, logger *logger.Logger) *Session {
	return &Session{sessionService: sessionService, cookie: cookie, logger: logger}
}

// loginRequest accepts the PIN as either "credential" or "code".
type loginRequest struct {
	Credential string `json:"credential" validate:"required_without=Code,max=128"`
	Code       string `json:"code" validate:"required_without=Credential,max=128"`
}

func (r loginRequest) value() string {
	if r.Credential != "" {
		return r.Credential
	}
	return r.Code
}

type loginResponse struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"sessionId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Login checks the staff credential and sets the session cookie.
func (h *Session) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Error: msgBadRequest})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Error: msgInvalidFormat})
		return
	}

	ip := ClientIP(r)
	session, err := h.sessionService.Issue(r.Context(), req.value(), ip)
	if err != nil {
		status, msg := mapError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Session handler: login failed",
				"ip", ip,
				"error", err.Error())
		}
		writeJSON(w, status, loginResponse{Error: msg})
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Value, int(model.SessionLifetime.Seconds())))
	writeJSON(w, http.StatusOK, loginResponse{OK: true, SessionID: session.ID})
}

// Logout clears the session cookie.
func (h *Session) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, loginResponse{OK: true})
}

func (h *Session) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     model.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
