package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lasgemelas/disfraces-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"

	// Inbound IDs longer than a doubled UUID are junk and get replaced.
	maxInboundRequestIDLen = 72
)

// RequestID tags every request with an identifier for log correlation. The
// storefront proxy forwards its own X-Request-Id; it is honored when it looks
// sane, otherwise a fresh UUID is minted.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := sanitizeRequestID(r.Header.Get(requestIDHeader))
			if reqID == "" {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sanitizeRequestID accepts UUID-shaped and token-shaped IDs only, so a
// hostile header cannot smuggle arbitrary bytes into the logs.
func sanitizeRequestID(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > maxInboundRequestIDLen {
		return ""
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return ""
		}
	}
	return value
}
