package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tiktok-relay/utils"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(p []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	return n, err
}

// AccessLog logs one line per request. When hashKey is set, client IPs are
// logged as keyed one-way hashes; user agents are always logged as a compact
// digest rather than the raw header.
func AccessLog(log zerolog.Logger, hashKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			ip := utils.ClientIP(r.Header)
			if ip == "" {
				ip = r.RemoteAddr
			}
			if len(hashKey) > 0 {
				ip = utils.PseudonymizeIP(hashKey, ip)
			}

			log.Info().
				Str("request_id", GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("duration", time.Since(start)).
				Str("client_ip", ip).
				Str("ua", utils.CompressUserAgent(r.UserAgent())).
				Msg("request")
		})
	}
}
