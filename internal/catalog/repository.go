package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/pkg/db/models"
)

// Repository wires together catalog persistence for products and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads the product with its category.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products matching the given ids in one query.
// Missing ids are silently absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).
		Error
	return rows, err
}

// List returns products ordered by newest first, optionally restricted
// to one category.
func (r *Repository) List(ctx context.Context, categoryID *int64) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC")
	if categoryID != nil {
		qb = qb.Where("category_id = ?", *categoryID)
	}
	var rows []models.Product
	err := qb.Find(&rows).Error
	return rows, err
}

// Search matches the term against product and category names,
// case-insensitive.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + term + "%"
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("lower(products.name) LIKE lower(?) OR lower(categories.name) LIKE lower(?)", pattern, pattern).
		Order("products.created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindCategoryByID loads one category.
func (r *Repository) FindCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CountProducts returns the total number of products.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}
