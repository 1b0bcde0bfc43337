package middleware

import (
	"context"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// NewAuthMiddleware resolves the caller from the access token. Tokens are issued by
// the identity service; only the claims are trusted here.
func NewAuthMiddleware(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.ExtractClaims(r)
			if err != nil {
				utils.WriteErrorDetail(w, http.StatusUnauthorized,
					bundle.Localize(r.Header.Get("Accept-Language"), i18n.MsgUnauthorized), err.Error())
				return
			}

			user := &domain.User{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			}

			reqLogger := logger.WithUserID(*logger.WithContext(r.Context()), user.ID)
			ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
			ctx = logger.NewContext(ctx, &reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the caller set by the auth middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(domain.UserContextKey).(*domain.User)
	return user, ok && user != nil
}
