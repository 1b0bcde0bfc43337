package middleware

import (
	"net/http"

	"storefront-backend/internal/i18n"
	"storefront-backend/pkg/utils"
)

// NewAdminMiddleware ensures the authenticated user has the admin role.
// MUST be used AFTER the auth middleware.
func NewAdminMiddleware(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.Header.Get("Accept-Language")
			user, ok := UserFromContext(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, bundle.Localize(lang, i18n.MsgUnauthorized))
				return
			}
			if !user.IsAdmin() {
				utils.WriteError(w, http.StatusForbidden, bundle.Localize(lang, i18n.MsgForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
