package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/pkg/enums"
)

// Order is created exactly once per successful payment capture. UserID is
// nil for guest purchases, in which case Email carries the guest contact.
type Order struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      *int64            `gorm:"column:user_id"`
	Email       *string           `gorm:"column:email"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Address     string            `gorm:"column:address;type:varchar(255);not null"`
	PhoneNumber *string           `gorm:"column:phone_number"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment     *Payment          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }
