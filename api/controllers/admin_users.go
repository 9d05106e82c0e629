package controllers

import (
	"net/http"

	"github.com/acuellar/tiendita-backend/api/middleware"
	"github.com/acuellar/tiendita-backend/api/responses"
	"github.com/acuellar/tiendita-backend/api/validators"
	authsvc "github.com/acuellar/tiendita-backend/internal/auth"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

// AdminUserList returns every registered account.
func AdminUserList(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, users)
	}
}

// AdminUserRole grants or revokes the admin flag on an account.
func AdminUserRole(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := middleware.UserIDFromContext(r.Context())
		if actorID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		targetID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload authsvc.RoleUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.SetRole(r.Context(), actorID, targetID, payload.IsAdmin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
