package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/pkg/db/models"
	"github.com/acuellar/tiendita-backend/pkg/enums"
)

// OrderDTO is the admin read shape for one order.
type OrderDTO struct {
	ID          int64             `json:"id"`
	UserID      *int64            `json:"user_id,omitempty"`
	Email       *string           `json:"email,omitempty"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"status"`
	Address     string            `json:"address"`
	PhoneNumber *string           `json:"phone_number,omitempty"`
	Items       []OrderItemDTO    `json:"items"`
	Payment     *PaymentDTO       `json:"payment,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// OrderItemDTO is one purchased line in an order.
type OrderItemDTO struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentDTO is the settlement record attached to an order.
type PaymentDTO struct {
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	CardType       string              `json:"card_type"`
	CardholderName string              `json:"cardholder_name"`
	CardLastFour   *string             `json:"card_last_four,omitempty"`
	Country        string              `json:"country"`
	Amount         decimal.Decimal     `json:"amount"`
	Status         enums.PaymentStatus `json:"status"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		Email:       order.Email,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Address:     order.Address,
		PhoneNumber: order.PhoneNumber,
		Items:       make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if order.Payment != nil {
		dto.Payment = &PaymentDTO{
			PaymentMethod:  order.Payment.PaymentMethod,
			CardType:       order.Payment.CardType,
			CardholderName: order.Payment.CardholderName,
			CardLastFour:   order.Payment.CardLastFour,
			Country:        order.Payment.Country,
			Amount:         order.Payment.Amount,
			Status:         order.Payment.Status,
		}
	}
	return dto
}

func toOrderDTOs(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toOrderDTO(&rows[i]))
	}
	return dtos
}
