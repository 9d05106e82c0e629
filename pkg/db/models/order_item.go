package models

import "github.com/shopspring/decimal"

// OrderItem snapshots one cart entry at capture time. UnitPrice is the
// product price read inside the capture transaction, decoupled from any
// later catalog price change.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int64           `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }
