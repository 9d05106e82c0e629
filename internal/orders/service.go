package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/pkg/enums"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/pagination"
)

// OrderPage is one page of the back-office order list.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Service exposes the admin order management surface.
type Service interface {
	ListOrders(ctx context.Context, params pagination.Params) (*OrderPage, error)
	GetOrder(ctx context.Context, id int64) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*OrderDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs an orders service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// ListOrders returns one page of orders for the back office.
func (s *service) ListOrders(ctx context.Context, params pagination.Params) (*OrderPage, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return &OrderPage{Orders: toOrderDTOs(rows), NextCursor: next}, nil
}

// GetOrder returns one order with items and payment.
func (s *service) GetOrder(ctx context.Context, id int64) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order")
	}
	return toOrderDTO(order), nil
}

// UpdateStatus moves the order to one of the allowed statuses and
// returns the refreshed order.
func (s *service) UpdateStatus(ctx context.Context, id int64, status string) (*OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if err := s.repo.UpdateStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}

	return s.GetOrder(ctx, id)
}
