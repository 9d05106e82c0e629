package cart

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
)

var (
	// ErrEmptyCart is returned when the cart mapping has no entries.
	ErrEmptyCart = pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	// ErrNoValidProducts is returned when none of the cart's product ids
	// resolve against the catalog.
	ErrNoValidProducts = pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no valid products")
)

// LineItem is one priced cart entry.
type LineItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
}

// Reader prices a session cart against the current catalog.
type Reader struct {
	products productFinder
}

// NewReader builds a reader over the provided product lookup.
func NewReader(products productFinder) *Reader {
	return &Reader{products: products}
}

// PriceCart resolves every cart entry in one batched lookup and returns
// the priced line items plus their total. Product ids that no longer
// exist in the catalog are skipped. Items are ordered by product id so
// the output is stable for a given cart.
func (r *Reader) PriceCart(ctx context.Context, cartMap map[int64]int64) ([]LineItem, decimal.Decimal, error) {
	if len(cartMap) == 0 {
		return nil, decimal.Zero, ErrEmptyCart
	}

	ids := make([]int64, 0, len(cartMap))
	for id := range cartMap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows, err := r.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart products")
	}
	if len(rows) == 0 {
		return nil, decimal.Zero, ErrNoValidProducts
	}

	byID := make(map[int64]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	items := make([]LineItem, 0, len(rows))
	total := decimal.Zero
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			continue
		}
		qty := cartMap[id]
		subtotal := product.Price.Mul(decimal.NewFromInt(qty))
		items = append(items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	return items, total, nil
}
