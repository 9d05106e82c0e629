package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/api/responses"
	"github.com/acuellar/tiendita-backend/api/validators"
	"github.com/acuellar/tiendita-backend/internal/catalog"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

type createProductRequest struct {
	CategoryID int64           `json:"category_id" validate:"required,gt=0"`
	Name       string          `json:"name" validate:"required,min=1,max=255"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	Stock      int             `json:"stock" validate:"gte=0"`
	ImageURL   *string         `json:"image_url"`
}

type updateProductRequest struct {
	CategoryID *int64           `json:"category_id" validate:"omitempty,gt=0"`
	Name       *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock" validate:"omitempty,gte=0"`
	ImageURL   *string          `json:"image_url"`
}

// AdminCreateProduct adds a catalog listing.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			CategoryID: payload.CategoryID,
			Name:       payload.Name,
			Price:      payload.Price,
			Stock:      payload.Stock,
			ImageURL:   payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to a catalog listing.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Price != nil && payload.Price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			CategoryID: payload.CategoryID,
			Name:       payload.Name,
			Price:      payload.Price,
			Stock:      payload.Stock,
			ImageURL:   payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a catalog listing.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}
