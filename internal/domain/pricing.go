package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem is a client-supplied cart line. Only the product reference and
// quantity are ever trusted; prices come from the catalog.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PricingResult is derived per request and never persisted or cached.
// CouponRejected explains why a supplied coupon contributed no discount.
type PricingResult struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	Total          decimal.Decimal `json:"total"`
	AmountMinor    int64           `json:"amount"`
	CouponCode     string          `json:"couponCode,omitempty"`
	CouponRejected string          `json:"couponRejected,omitempty"`
	PricedLines    []PricedLine    `json:"-"`
	SkippedLines   int             `json:"-"`
}

type PricedLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PaymentGateway creates charges with an external processor.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*PaymentIntent, error)
}

// PaymentIntent is what the gateway hands back for the client to confirm.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}
