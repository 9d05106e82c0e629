package controllers

import (
	"context"
	"net/http"

	"github.com/acuellar/tiendita-backend/api/middleware"
	"github.com/acuellar/tiendita-backend/api/responses"
	"github.com/acuellar/tiendita-backend/api/validators"
	cartsvc "github.com/acuellar/tiendita-backend/internal/cart"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/session"
)

type cartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type cartQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

// sessionSaver persists checkout sessions after handler mutations.
// *session.Store satisfies it.
type sessionSaver interface {
	Save(ctx context.Context, sess *session.CheckoutSession) error
}

func sessionFromRequest(r *http.Request) (*session.CheckoutSession, error) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return sess, nil
}

// CartView prices the current cart.
func CartView(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.View(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds one unit of a product and persists the session.
func CartAddItem(svc cartsvc.Service, store sessionSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddItem(r.Context(), sess, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Save(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.View(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartUpdateItem sets the quantity of a cart line and persists the session.
func CartUpdateItem(svc cartsvc.Service, store sessionSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateItem(r.Context(), sess, productID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Save(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.View(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem drops a cart line and persists the session.
func CartRemoveItem(svc cartsvc.Service, store sessionSaver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), sess, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Save(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"removed": productID})
	}
}
