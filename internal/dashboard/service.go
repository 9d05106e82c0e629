package dashboard

import (
	"context"
	"fmt"

	"github.com/acuellar/tiendita-backend/internal/catalog"
	"github.com/acuellar/tiendita-backend/internal/orders"
	"github.com/acuellar/tiendita-backend/internal/users"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
)

// Counts is the admin landing page summary.
type Counts struct {
	Products int64 `json:"products"`
	Users    int64 `json:"users"`
	Orders   int64 `json:"orders"`
}

// Service aggregates back-office totals.
type Service interface {
	Counts(ctx context.Context) (*Counts, error)
}

// ServiceParams bundles the dependencies for the dashboard service.
type ServiceParams struct {
	Catalog *catalog.Repository
	Users   *users.Repository
	Orders  *orders.Repository
}

type service struct {
	catalog *catalog.Repository
	users   *users.Repository
	orders  *orders.Repository
}

// NewService constructs the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{catalog: params.Catalog, users: params.Users, orders: params.Orders}, nil
}

func (s *service) Counts(ctx context.Context) (*Counts, error) {
	products, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	userCount, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count users")
	}
	orderCount, err := s.orders.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	return &Counts{Products: products, Users: userCount, Orders: orderCount}, nil
}
