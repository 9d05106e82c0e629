package controllers

import (
	"net/http"

	"github.com/acuellar/tiendita-backend/api/responses"
	"github.com/acuellar/tiendita-backend/api/validators"
	checkoutsvc "github.com/acuellar/tiendita-backend/internal/checkout"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

// CheckoutSummary returns the priced cart and the current checkout state.
// Summary refreshes the payable total on the session, so the session is
// persisted before responding.
func CheckoutSummary(svc checkoutsvc.Service, store sessionSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Save(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CheckoutGuestInfo records the guest's contact details and persists the session.
func CheckoutGuestInfo(svc checkoutsvc.Service, store sessionSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.GuestInfoInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SubmitGuestInfo(r.Context(), sess, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// One save covers both the guest fields and the refreshed total.
		if err := store.Save(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
