package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/user"
	"github.com/sentra-hr/attendance-backend-go/internal/handler/http/response"
)

// RequireCapability rejects requests whose role does not grant the
// capability. Services still re-check before mutating; this keeps obviously
// unauthorized requests out of the service layer.
func RequireCapability(capability user.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", capability))
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", capability))
				return
			}

			role, ok := user.ParseRole(roleStr)
			if !ok || !user.HasCapability(role, capability) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", capability, roleStr))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
