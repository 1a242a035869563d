package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/ctxkeys"
)

const correlationHeader = "X-Correlation-Id"

// Correlation accepts a caller-supplied correlation id or mints one, stores
// it in the request context and echoes it back on the response so clients
// can tie their logs to ours.
func Correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(correlationHeader)
		if cid == "" {
			cid = uuid.NewString()
		}

		w.Header().Set(correlationHeader, cid)

		ctx := ctxkeys.WithCorrelationID(r.Context(), cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
