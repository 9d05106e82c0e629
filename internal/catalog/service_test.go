package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestSearchProductsRejectsShortTerm(t *testing.T) {
	svc, _ := newTestService(t)

	for _, term := range []string{"", "ab", "  ab  ", " a "} {
		_, err := svc.SearchProducts(context.Background(), term)
		require.Error(t, err, "term %q", term)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestSearchProductsTrimsTermBeforeMatching(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	tea := mustCreateCategory(t, repo.db, "Tea")
	mustCreateProduct(t, repo.db, tea.ID, "Sencha", "6.00", 5)

	rows, err := svc.SearchProducts(ctx, "  sencha  ")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sencha", rows[0].Name)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(context.Background(), 404)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCreateProductValidation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	tea := mustCreateCategory(t, repo.db, "Tea")

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{CategoryID: tea.ID, Name: "  ", Price: decimal.RequireFromString("1.00"), Stock: 1}},
		{"negative price", CreateProductInput{CategoryID: tea.ID, Name: "Sencha", Price: decimal.RequireFromString("-1.00"), Stock: 1}},
		{"negative stock", CreateProductInput{CategoryID: tea.ID, Name: "Sencha", Price: decimal.RequireFromString("1.00"), Stock: -1}},
		{"missing category", CreateProductInput{CategoryID: 999, Name: "Sencha", Price: decimal.RequireFromString("1.00"), Stock: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestCreateAndUpdateProduct(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	tea := mustCreateCategory(t, repo.db, "Tea")
	coffee := mustCreateCategory(t, repo.db, "Coffee")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		CategoryID: tea.ID,
		Name:       "  Sencha  ",
		Price:      decimal.RequireFromString("6.00"),
		Stock:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sencha", created.Name)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("6.00")))

	newName := "House Espresso"
	newPrice := decimal.RequireFromString("9.50")
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		CategoryID: &coffee.ID,
		Name:       &newName,
		Price:      &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "House Espresso", updated.Name)
	assert.Equal(t, coffee.ID, updated.CategoryID)
	assert.True(t, updated.Price.Equal(newPrice))

	badCategory := int64(777)
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{CategoryID: &badCategory})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteProduct(context.Background(), 12345)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
