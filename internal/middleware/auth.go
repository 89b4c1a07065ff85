package middleware

import (
	"net/http"

	"github.com/Jidetireni/adyc-membership/internal/services/users"
)

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := users.TokenFromRequest(r)
		if tokenString == "" {
			m.apiError(w, "Unauthorized: No token provided", http.StatusUnauthorized)
			return
		}

		claims, err := m.TokenSvc.ValidateToken(tokenString)
		if err != nil {
			m.apiError(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		userCtx := &users.UserContextValue{
			ID:    claims.ID,
			Email: claims.Email,
			Role:  claims.Role,
		}

		next.ServeHTTP(w, r.WithContext(users.NewContextWithUser(r.Context(), userCtx)))
	})
}

func (m *Middleware) RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := users.FromContext(r.Context())
			if !ok {
				m.apiError(w, "Unauthorized: No user found", http.StatusUnauthorized)
				return
			}

			if user.Role != requiredRole {
				m.apiError(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
