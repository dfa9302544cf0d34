package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// maxRequestIDLength caps ids forwarded by the edge proxy; anything longer is
// replaced rather than written into every log line.
const maxRequestIDLength = 64

func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLength {
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
