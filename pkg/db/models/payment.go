package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/pkg/enums"
)

// Payment is the one-to-one provider settlement record for an order.
// CardLastFour is nil for PayPal captures.
type Payment struct {
	ID             int64               `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        int64               `gorm:"column:order_id;not null;uniqueIndex"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	CardType       string              `gorm:"column:card_type;not null"`
	CardholderName string              `gorm:"column:cardholder_name;not null"`
	CardLastFour   *string             `gorm:"column:card_last_four"`
	Country        string              `gorm:"column:country;not null"`
	Amount         decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Status         enums.PaymentStatus `gorm:"column:status;not null"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Payment) TableName() string { return "payments" }
