package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/acuellar/tiendita-backend/api/middleware"
	"github.com/acuellar/tiendita-backend/api/responses"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/redis"
)

// AdminCSRFToken issues the per-admin token required on mutating admin
// requests. Re-issuing replaces the previous token.
func AdminCSRFToken(client *redis.Client, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		token := uuid.NewString()
		key := client.CSRFKey(fmt.Sprintf("%d", userID))
		if err := client.Set(r.Context(), key, token, ttl); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store csrf token"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"csrf_token": token})
	}
}
