package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

// ParseDiscountType accepts "percentage" as a synonym of "percent".
func ParseDiscountType(s string) (DiscountType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return DiscountFixed, true
	case "percent", "percentage":
		return DiscountPercent, true
	}
	return "", false
}

// CanonicalCouponCode trims and uppercases a code.
func CanonicalCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Coupon struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinPurchase   decimal.Decimal `json:"minPurchase"`
	UsageLimit    int             `json:"usageLimit"`
	UsedCount     int             `json:"usedCount"`
	ExpiryDate    time.Time       `json:"expiryDate"`
	IsActive      bool            `json:"isActive"`
	UsedBy        []string        `json:"usedBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CouponTerms is what a successful validation hands back: the discount, not yet applied.
type CouponTerms struct {
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinPurchase   decimal.Decimal `json:"minPurchase"`
}

func (c *Coupon) Terms() *CouponTerms {
	return &CouponTerms{
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MinPurchase:   c.MinPurchase,
	}
}

// CouponUpdate is the admin-editable subset of a coupon.
type CouponUpdate struct {
	Code          string
	DiscountValue decimal.Decimal
	MinPurchase   decimal.Decimal
	ExpiryDate    time.Time
	IsActive      bool
}

type CouponRepository interface {
	Create(ctx context.Context, c *Coupon) error
	// GetActiveByCode returns ErrNotFound when no active coupon carries code.
	GetActiveByCode(ctx context.Context, code string) (*Coupon, error)
	GetByID(ctx context.Context, id string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Update(ctx context.Context, id string, u CouponUpdate) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, code string) (bool, error)

	// Redeem increments usedCount and records email in usedBy in a single
	// statement, only while the coupon is active, unexpired at now and below
	// its usage limit. It reports whether a row was credited.
	Redeem(ctx context.Context, code, email string, now time.Time) (bool, error)
}
