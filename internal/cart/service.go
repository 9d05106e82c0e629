package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/session"
)

// CartDTO is the priced cart view returned by the API.
type CartDTO struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type productLoader interface {
	productFinder
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service mutates the session cart and produces priced views of it.
// Persisting the mutated session back to the store is the caller's job.
type Service interface {
	View(ctx context.Context, sess *session.CheckoutSession) (*CartDTO, error)
	AddItem(ctx context.Context, sess *session.CheckoutSession, productID int64) error
	UpdateItem(ctx context.Context, sess *session.CheckoutSession, productID, quantity int64) error
	RemoveItem(ctx context.Context, sess *session.CheckoutSession, productID int64) error
}

type service struct {
	products productLoader
	reader   *Reader
}

// NewService constructs a cart service instance.
func NewService(products productLoader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		products: products,
		reader:   NewReader(products),
	}, nil
}

// View prices the session cart. An empty cart is a valid view with no
// items, not an error.
func (s *service) View(ctx context.Context, sess *session.CheckoutSession) (*CartDTO, error) {
	items, total, err := s.reader.PriceCart(ctx, sess.Cart)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrNoValidProducts) {
			return &CartDTO{Items: []LineItem{}, Total: decimal.Zero}, nil
		}
		return nil, err
	}
	return &CartDTO{Items: items, Total: total}, nil
}

// AddItem increments the quantity for an existing catalog product.
func (s *service) AddItem(ctx context.Context, sess *session.CheckoutSession, productID int64) error {
	if err := s.ensureProductExists(ctx, productID); err != nil {
		return err
	}
	if sess.Cart == nil {
		sess.Cart = map[int64]int64{}
	}
	sess.Cart[productID]++
	return nil
}

// UpdateItem sets the quantity for a cart entry. Quantities below one
// are rejected, never stored.
func (s *service) UpdateItem(ctx context.Context, sess *session.CheckoutSession, productID, quantity int64) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.ensureProductExists(ctx, productID); err != nil {
		return err
	}
	if sess.Cart == nil {
		sess.Cart = map[int64]int64{}
	}
	sess.Cart[productID] = quantity
	return nil
}

// RemoveItem drops the cart entry if present.
func (s *service) RemoveItem(_ context.Context, sess *session.CheckoutSession, productID int64) error {
	delete(sess.Cart, productID)
	return nil
}

func (s *service) ensureProductExists(ctx context.Context, productID int64) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}
	return nil
}
