package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryProductFlow(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Beverages")
	product := mustCreateProduct(t, db, category.ID, "Green Tea", "4.50", 10)
	require.NotZero(t, product.ID)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", found.Name)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Beverages", found.Category.Name)

	found.Name = "Black Tea"
	_, err = repo.Update(ctx, found)
	require.NoError(t, err)

	again, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Black Tea", again.Name)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.FindByID(ctx, product.ID)
	require.Error(t, err)
}

func TestRepositoryListFiltersByCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tea := mustCreateCategory(t, db, "Tea")
	coffee := mustCreateCategory(t, db, "Coffee")
	mustCreateProduct(t, db, tea.ID, "Sencha", "6.00", 5)
	mustCreateProduct(t, db, tea.ID, "Matcha", "12.00", 3)
	mustCreateProduct(t, db, coffee.ID, "Espresso Blend", "9.00", 8)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyTea, err := repo.List(ctx, &tea.ID)
	require.NoError(t, err)
	require.Len(t, onlyTea, 2)
	for _, p := range onlyTea {
		assert.Equal(t, tea.ID, p.CategoryID)
	}
}

func TestRepositorySearchMatchesProductAndCategoryNames(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tea := mustCreateCategory(t, db, "Tea")
	snacks := mustCreateCategory(t, db, "Snacks")
	mustCreateProduct(t, db, tea.ID, "Sencha", "6.00", 5)
	mustCreateProduct(t, db, snacks.ID, "Tea Biscuits", "3.00", 20)
	mustCreateProduct(t, db, snacks.ID, "Crackers", "2.50", 15)

	rows, err := repo.Search(ctx, "tea")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.Search(ctx, "crack")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Crackers", rows[0].Name)
}

func TestRepositoryFindByIDsSkipsMissing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tea := mustCreateCategory(t, db, "Tea")
	p := mustCreateProduct(t, db, tea.ID, "Sencha", "6.00", 5)

	rows, err := repo.FindByIDs(ctx, []int64{p.ID, 9999})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p.ID, rows[0].ID)

	rows, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
