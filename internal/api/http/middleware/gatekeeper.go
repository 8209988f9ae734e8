package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/staff-login"

// Paths reachable without a staff session. A path matches when it equals an
// entry or lies below it.
var publicPaths = []string{
	LoginPath,
	"/api/staff-session",
	"/static",
	"/favicon.ico",
	"/robots.txt",
	"/sitemap.xml",
	"/healthz",
}

// SessionVerifier resolves a session token to its session id.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// Gatekeeper admits requests to protected paths only with a valid session cookie.
type Gatekeeper struct {
	verifier       SessionVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewGatekeeper creates a new Gatekeeper middleware instance.
func NewGatekeeper(verifier SessionVerifier, contextManager model.ContextManager, logger *logger.Logger) *Gatekeeper {
	return &Gatekeeper{verifier: verifier, contextManager: contextManager, logger: logger}
}

// IsPublic reports whether path is served without authentication.
func IsPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Handler verifies the session cookie, forwards the session id to downstream
// handlers and rejects everything else.
func (m *Gatekeeper) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never trust a client supplied session id.
		r.Header.Del(model.SessionHeader)

		if IsPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		sessionID, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("Gatekeeper middleware: request rejected",
				"path", r.URL.Path,
				"error", err.Error())
			m.reject(w, r)
			return
		}

		r.Header.Set(model.SessionHeader, sessionID)
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetSessionIDToContext(r.Context(), sessionID)))
	})
}

func (m *Gatekeeper) authenticate(r *http.Request) (string, error) {
	cookie, err := r.Cookie(model.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", model.ErrUnauthorized
	}
	return m.verifier.Verify(cookie.Value)
}

func (m *Gatekeeper) reject(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
}
