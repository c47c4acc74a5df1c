package middleware

import (
	"net/http"

	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/jwt"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if claims.Role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
