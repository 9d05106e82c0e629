package controllers

import (
	"net/http"

	"github.com/acuellar/tiendita-backend/api/responses"
	"github.com/acuellar/tiendita-backend/internal/dashboard"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

// AdminDashboard returns the back-office landing counts.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.Counts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, counts)
	}
}
