// Package metadata attaches request-scoped metadata (request ID, request
// time) to the context. Applied early in the middleware chain so every
// log line and export downstream can reference the same values.
package metadata

import (
	"net/http"

	"github.com/google/uuid"

	"taxprotest/pkg/requestcontext"
)

// RequestIDHeader is the inbound and outbound request ID header.
const RequestIDHeader = "X-Request-Id"

// RequestMetadata assigns every request an ID (honoring an inbound
// X-Request-Id) and pins the request time, echoing the ID back in the
// response headers.
func RequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
