package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/pkg/db/models"
)

func mustCreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func mustCreateProduct(t *testing.T, db *gorm.DB, categoryID int64, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
