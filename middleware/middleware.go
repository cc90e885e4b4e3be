package middleware

import (
	"net/http"

	"github.com/pborman/uuid"

	"github.com/CMSgov/healthcare-facade/facade/constants"
)

// NewRequestID makes sure every request carries an X-Request-ID before chi's
// RequestID middleware reads it, and echoes the id back to the caller.
func NewRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(constants.RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New()
			r = r.Clone(r.Context())
			r.Header.Set(constants.RequestIDHeader, reqID)
		}
		w.Header().Set(constants.RequestIDHeader, reqID)
		next.ServeHTTP(w, r)
	})
}
