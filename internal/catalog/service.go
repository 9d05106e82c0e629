package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
)

// MinSearchTermLength is the shortest accepted search term after trimming.
const MinSearchTermLength = 3

// Service exposes catalog reads plus the admin product management surface.
type Service interface {
	ListProducts(ctx context.Context, categoryID *int64) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
	SearchProducts(ctx context.Context, term string) ([]ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns the catalog, optionally filtered by category.
func (s *service) ListProducts(ctx context.Context, categoryID *int64) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return toProductDTOs(rows), nil
}

// GetProduct returns one product with its category name.
func (s *service) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}
	return toProductDTO(product), nil
}

// SearchProducts matches the trimmed term against product and category
// names. Terms shorter than three characters are rejected.
func (s *service) SearchProducts(ctx context.Context, term string) ([]ProductDTO, error) {
	trimmed := strings.TrimSpace(term)
	if len(trimmed) < MinSearchTermLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("search term must be at least %d characters", MinSearchTermLength))
	}
	rows, err := s.repo.Search(ctx, trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search products")
	}
	return toProductDTOs(rows), nil
}

// ListCategories returns all categories.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return toCategoryDTOs(rows), nil
}

// CreateProduct validates the payload and inserts the product.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := s.validateProductFields(ctx, input.Name, input.Price.IsNegative(), input.Stock, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID: input.CategoryID,
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		Stock:      input.Stock,
		ImageURL:   input.ImageURL,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return toProductDTO(created), nil
}

// UpdateProduct applies the provided fields to an existing product.
func (s *service) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = trimmed
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
		product.Category = nil
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return toProductDTO(updated), nil
}

// DeleteProduct removes the product.
func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) validateProductFields(ctx context.Context, name string, negativePrice bool, stock int, categoryID int64) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if negativePrice {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return s.ensureCategoryExists(ctx, categoryID)
}

func (s *service) ensureCategoryExists(ctx context.Context, categoryID int64) error {
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find category")
	}
	return nil
}
