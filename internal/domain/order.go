package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderFilter struct {
	Page           int
	Limit          int
	Email          string
	DeliveryStatus string
}

type Order struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Items          []OrderItem     `json:"items"`
	CouponCode     string          `json:"couponCode,omitempty"`
	CouponCredited bool            `json:"couponCredited"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	District       string          `json:"district"`
	DeliveryStatus string          `json:"deliveryStatus"`
	DeliveredAt    *time.Time      `json:"deliveredAt,omitempty"`
	PaymentStatus  string          `json:"paymentStatus"`
	TransactionID  string          `json:"transactionId,omitempty"`
	CartIDs        []string        `json:"cartIds"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	UpdateDeliveryStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error
}
