package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/pkg/db/models"
)

// ProductDTO is the catalog read shape returned by the API.
type ProductDTO struct {
	ID           int64           `json:"id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ImageURL     *string         `json:"image_url,omitempty"`
}

// CategoryDTO is the category read shape returned by the API.
type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID int64
	Name       string
	Price      decimal.Decimal
	Stock      int
	ImageURL   *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID *int64
	Name       *string
	Price      *decimal.Decimal
	Stock      *int
	ImageURL   *string
}

func toProductDTO(p *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		ImageURL:   p.ImageURL,
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
	}
	return dto
}

func toProductDTOs(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toProductDTO(&rows[i]))
	}
	return dtos
}

func toCategoryDTOs(rows []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(rows))
	for _, c := range rows {
		dtos = append(dtos, CategoryDTO{ID: c.ID, Name: c.Name})
	}
	return dtos
}
