package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization gates routes on the caller's role. It assumes
// AuthMiddleware already placed a SessionUser in the context.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !u.HasRole(roles...) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", u.ID,
					"role", u.Role,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles("admin")
}

func (ra *RBACAuthorization) RequireResponsable() func(http.Handler) http.Handler {
	return ra.RequireRoles("responsable")
}

func (ra *RBACAuthorization) RequireWorker() func(http.Handler) http.Handler {
	return ra.RequireRoles("worker")
}
