package model

import "time"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "staff_session"

// SessionHeader forwards the verified session id to downstream handlers.
const SessionHeader = "X-Staff-Session-Id"

// SessionLifetime bounds how long a client keeps the session cookie.
const SessionLifetime = 8 * time.Hour

// SessionToken is a signed session identifier as handed to the client.
type SessionToken struct {
	ID    string
	Value string
}
