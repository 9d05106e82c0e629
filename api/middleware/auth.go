package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/acuellar/tiendita-backend/api/responses"
	pkgauth "github.com/acuellar/tiendita-backend/pkg/auth"
	"github.com/acuellar/tiendita-backend/pkg/config"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func contextWithClaims(ctx context.Context, logg *logger.Logger, claims *pkgauth.AccessTokenClaims) context.Context {
	ctx = WithUserID(ctx, claims.UserID)
	ctx = context.WithValue(ctx, ctxIsAdmin, claims.IsAdmin)
	if logg != nil {
		ctx = logg.WithUserID(ctx, fmt.Sprintf("%d", claims.UserID))
	}
	return ctx
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), logg, claims)))
		})
	}
}

// OptionalAuth seeds the context with claims when a valid bearer token is
// present and lets guests through untouched. A malformed token is still an
// error; silently downgrading it would mask client bugs.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), logg, claims)))
		})
	}
}

// AdminDirectory answers whether a user currently holds admin rights.
// *users.Repository satisfies it.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// RequireAdmin rejects requests whose token does not carry the admin flag,
// then re-checks the flag against the users table so a demotion takes
// effect before the token expires.
func RequireAdmin(dir AdminDirectory, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			forbidden := pkgerrors.New(pkgerrors.CodeForbidden, "administrator access required")

			userID := UserIDFromContext(r.Context())
			if !IsAdminFromContext(r.Context()) || userID == 0 {
				responses.WriteError(r.Context(), logg, w, forbidden)
				return
			}

			isAdmin, err := dir.IsAdmin(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: verify admin"))
				return
			}
			if !isAdmin {
				responses.WriteError(r.Context(), logg, w, forbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
