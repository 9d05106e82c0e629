package controllers

import (
	"net/http"
	"strings"

	"github.com/acuellar/tiendita-backend/api/responses"
	paymentsvc "github.com/acuellar/tiendita-backend/internal/payments"
	"github.com/acuellar/tiendita-backend/pkg/enums"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

// PaymentInitiate starts a provider checkout and returns the redirect URL.
func PaymentInitiate(svc paymentsvc.Service, method enums.PaymentMethod, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := svc.Initiate(r.Context(), sess, method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, target)
	}
}

// PaymentCapture settles the provider payment and records the order. The
// correlation token arrives as session_id for card payments and as token on
// the PayPal return URL.
func PaymentCapture(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.TrimSpace(r.URL.Query().Get("method")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		// Stripe always returns with ?session_id=, so its absence is a bad
		// request. PayPal may come back bare; the service falls back to the
		// order id remembered in the session.
		var token string
		switch method {
		case enums.PaymentMethodStripe:
			token = strings.TrimSpace(r.URL.Query().Get("session_id"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "payment token required"))
				return
			}
		case enums.PaymentMethodPayPal:
			token = strings.TrimSpace(r.URL.Query().Get("token"))
		}

		outcome, err := svc.Capture(r.Context(), sess, method, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, outcome)
	}
}
