package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/explainlike5/explainlike5-backend/pkg/ctxutil"
)

// RequestIDHeader is the HTTP header carrying the request id.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that propagates the incoming request id
// or generates a new one, stores it in the context, and echoes it in the
// response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
