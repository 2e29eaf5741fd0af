package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// PseudonymizeIP computes an HMAC-SHA256 of a client IP using the given key.
// One-way keyed hash (non-reversible) so access logs can correlate repeat
// callers without storing raw addresses. Result is truncated to 16 bytes
// (32 hex characters) for compactness.
func PseudonymizeIP(key []byte, ip string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// CompressUserAgent creates a short, deterministic digest of the User-Agent
// string for log fields. Uses xxHash-64 and Base64 to produce a compact
// identifier instead of the full multi-hundred-byte header value.
func CompressUserAgent(ua string) string {
	sum := xxhash.Sum64([]byte(ua))
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}
	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(buf)))
	base64.URLEncoding.Encode(encoded, buf[:])
	// First 11 characters carry the full 64 bits of entropy
	return string(encoded[:11])
}
