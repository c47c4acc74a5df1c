package middleware

import (
	"net/http"

	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests whose verified token is missing or is not an access token.
// It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.ClaimsFromContext(r.Context()); err != nil {
			response.Unauthorized(w, "Invalid or missing token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
