package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/acuellar/tiendita-backend/api/responses"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/redis"
)

// CSRFTokenHeader carries the per-admin CSRF token on mutating requests.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRF enforces the double-submit token on mutating admin requests. The
// expected value lives in Redis under the admin's user id and is issued by
// the csrf endpoint. Reads pass through untouched.
func CSRF(client *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			userID := UserIDFromContext(r.Context())
			if userID <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			provided := strings.TrimSpace(r.Header.Get(CSRFTokenHeader))
			if provided == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "csrf token required"))
				return
			}

			expected, err := client.Get(r.Context(), client.CSRFKey(fmt.Sprintf("%d", userID)))
			if err != nil {
				if redis.IsNil(err) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "csrf token expired"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify csrf token"))
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "csrf token mismatch"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
