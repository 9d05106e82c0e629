package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing.
type Product struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID int64           `gorm:"column:category_id;not null"`
	Name       string          `gorm:"column:name;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock      int             `gorm:"column:stock;not null;default:0"`
	ImageURL   *string         `gorm:"column:image_url"`
	Category   *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
