package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal"
)

// RequireRole admits only authenticated users holding one of roles.
func RequireRole(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				writeAppError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.WarnContext(r.Context(), "access denied: role not permitted",
				"user_id", user.ID,
				"role", user.Role,
				"required_roles", roles)
			writeAppError(w, internal.NewForbiddenError("insufficient permissions", internal.ErrCodeUnauthorizedAccess))
		})
	}
}

func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(logger, internal.RoleAdmin)
}
