package util

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client-supplied IDs before they reach the logs
const maxRequestIDLength = 64

// RequestLogger tags each request with an ID (reusing a sane client-supplied one,
// otherwise a new KSUID) and attaches a child logger carrying it
// to the request context, for use with zerolog.Ctx
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = ksuid.New().String()
			}

			w.Header().Set(RequestIDHeader, requestID)
			requestLogger := logger.With().Str("request_id", requestID).Logger()
			ctx := requestLogger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
