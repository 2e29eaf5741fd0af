package utils

import (
	"net/http"
	"strings"
)

// Headers consulted for client-IP resolution, in trust order. The connecting-IP
// header is set by the terminating proxy and cannot be forged by the client;
// the forwarded-for chain is spoofable, so it is only a fallback.
const (
	HeaderConnectingIP = "CF-Connecting-IP"
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// ClientIP resolves the caller's IP from proxy headers. The forwarded-for
// header is comma-separated; the first entry is the closest to the client.
// Returns "" when no header carries a value; resolution never fails.
func ClientIP(h http.Header) string {
	if ip := strings.TrimSpace(h.Get(HeaderConnectingIP)); ip != "" {
		return ip
	}
	if xff := h.Get(HeaderForwardedFor); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	return strings.TrimSpace(h.Get(HeaderRealIP))
}
