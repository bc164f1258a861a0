package middleware

import (
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/pkg/logger"
)

// UserContext tags the context logger with the authenticated user. It must run
// after the auth middleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := internal.UserFromContext(r.Context())
		if !ok || user == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", user.ID, "role", user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
