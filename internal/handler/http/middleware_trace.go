package http

import (
	"net/http"

	"github.com/google/uuid"
)

// withTraceID attaches a request-scoped logger carrying a fresh trace id, so
// every log line of one command shares an identifier.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		scoped := h.logger.With().Str("traceId", traceID).Logger()
		ctx := scoped.WithContext(r.Context())

		w.Header().Set("X-Trace-Id", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
