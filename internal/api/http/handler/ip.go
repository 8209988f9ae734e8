package handler

import (
	"net"
	"net/http"
	"strings"
)

const unknownIP = "local"

// ClientIP returns the caller address taken from RemoteAddr. Forwarding headers
// count only when the router is configured to trust them, in which case chi's
// RealIP middleware has already rewritten RemoteAddr.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return unknownIP
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return unknownIP
	}
	return addr
}
