package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/logger"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// CouponUsecase covers coupon validation for shoppers and coupon management for admins.
type CouponUsecase struct {
	couponRepo domain.CouponRepository
	pricing    *PricingEngine
}

// NewCouponUsecase creates a new CouponUsecase instance.
func NewCouponUsecase(couponRepo domain.CouponRepository, pricing *PricingEngine) *CouponUsecase {
	return &CouponUsecase{
		couponRepo: couponRepo,
		pricing:    pricing,
	}
}

// ValidateCoupon checks code against a prospective purchase amount and returns
// the discount terms on success.
func (uc *CouponUsecase) ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (*domain.CouponTerms, error) {
	return uc.pricing.ValidateCoupon(ctx, code, amount)
}

// CreateCouponRequest represents the input for creating a coupon.
type CreateCouponRequest struct {
	Code          string          `json:"code"`
	DiscountType  string          `json:"discountType"` // "fixed" or "percent"
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinPurchase   decimal.Decimal `json:"minPurchase"`
	UsageLimit    int             `json:"usageLimit"`
	ExpiryDate    string          `json:"expiryDate"` // ISO8601
	IsActive      *bool           `json:"isActive"`
}

// CreateCoupon validates and stores a new coupon. The usage counter always starts at zero.
func (uc *CouponUsecase) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*domain.Coupon, error) {
	code := domain.CanonicalCouponCode(req.Code)
	if code == "" {
		return nil, domain.Malformed("coupon code is required")
	}

	discountType, ok := domain.ParseDiscountType(req.DiscountType)
	if !ok {
		return nil, domain.Malformed("discount type must be 'fixed' or 'percent'")
	}
	if err := validateTerms(discountType, req.DiscountValue, req.MinPurchase); err != nil {
		return nil, err
	}
	if req.UsageLimit < 0 {
		return nil, domain.Malformed("usage limit must not be negative")
	}

	expiry, err := parseISO8601(req.ExpiryDate)
	if err != nil {
		return nil, domain.Malformed("expiry date is required in ISO8601 format")
	}

	exists, err := uc.couponRepo.Exists(ctx, code)
	if err != nil {
		return nil, domain.Upstream(err, "check coupon code")
	}
	if exists {
		return nil, domain.Malformed("coupon code '%s' already exists", code)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	coupon := &domain.Coupon{
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		UsageLimit:    req.UsageLimit,
		UsedCount:     0,
		ExpiryDate:    expiry,
		IsActive:      active,
		UsedBy:        []string{},
	}
	if err := uc.couponRepo.Create(ctx, coupon); err != nil {
		if errors.Is(err, domain.ErrMalformedInput) {
			return nil, err
		}
		return nil, domain.Upstream(err, "create coupon")
	}

	logger.WithContext(ctx).Info().Str("code", coupon.Code).Str("coupon_id", coupon.ID).Msg("Coupon created")
	return coupon, nil
}

// ListCoupons returns every coupon, newest first.
func (uc *CouponUsecase) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	coupons, err := uc.couponRepo.List(ctx)
	if err != nil {
		return nil, domain.Upstream(err, "list coupons")
	}
	return coupons, nil
}

// UpdateCouponRequest represents the admin-editable coupon fields.
type UpdateCouponRequest struct {
	Code          string          `json:"code"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinPurchase   decimal.Decimal `json:"minPurchase"`
	ExpiryDate    string          `json:"expiryDate"`
	IsActive      bool            `json:"isActive"`
}

// UpdateCoupon rewrites the editable fields of an existing coupon. Discount
// type, usage limit and the usage counter are not editable here.
func (uc *CouponUsecase) UpdateCoupon(ctx context.Context, id string, req UpdateCouponRequest) error {
	existing, err := uc.couponRepo.GetByID(ctx, id)
	if err != nil {
		return classify(err, "load coupon")
	}

	code := domain.CanonicalCouponCode(req.Code)
	if code == "" {
		return domain.Malformed("coupon code is required")
	}
	if err := validateTerms(existing.DiscountType, req.DiscountValue, req.MinPurchase); err != nil {
		return err
	}
	expiry, err := parseISO8601(req.ExpiryDate)
	if err != nil {
		return domain.Malformed("expiry date is required in ISO8601 format")
	}

	if code != existing.Code {
		dup, err := uc.couponRepo.Exists(ctx, code)
		if err != nil {
			return domain.Upstream(err, "check coupon code")
		}
		if dup {
			return domain.Malformed("coupon code '%s' already exists", code)
		}
	}

	err = uc.couponRepo.Update(ctx, id, domain.CouponUpdate{
		Code:          code,
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		ExpiryDate:    expiry,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return classify(err, "update coupon")
	}
	return nil
}

// SetCouponStatus toggles whether a coupon may be redeemed.
func (uc *CouponUsecase) SetCouponStatus(ctx context.Context, id string, active bool) error {
	if err := uc.couponRepo.SetActive(ctx, id, active); err != nil {
		return classify(err, "set coupon status")
	}
	logger.WithContext(ctx).Info().Str("coupon_id", id).Bool("active", active).Msg("Coupon status changed")
	return nil
}

// DeleteCoupon deletes a coupon by ID.
func (uc *CouponUsecase) DeleteCoupon(ctx context.Context, id string) error {
	if err := uc.couponRepo.Delete(ctx, id); err != nil {
		return classify(err, "delete coupon")
	}
	return nil
}

// IncrementUsage credits one use of code outside of order placement. It uses
// the same conditional increment as checkout so it can never push a coupon
// past its limit.
func (uc *CouponUsecase) IncrementUsage(ctx context.Context, code, email string) error {
	code = domain.CanonicalCouponCode(code)
	if code == "" {
		return domain.ErrInvalidCoupon
	}

	credited, err := uc.couponRepo.Redeem(ctx, code, email, uc.pricing.Now())
	if err != nil {
		return domain.Upstream(err, "redeem coupon")
	}
	if credited {
		return nil
	}

	exists, err := uc.couponRepo.Exists(ctx, code)
	if err != nil {
		return domain.Upstream(err, "check coupon code")
	}
	if !exists {
		return domain.ErrInvalidCoupon
	}
	return domain.ErrUsageLimitReached
}

func validateTerms(discountType domain.DiscountType, value, minPurchase decimal.Decimal) error {
	if !value.IsPositive() {
		return domain.Malformed("discount value must be greater than 0")
	}
	if discountType == domain.DiscountPercent && value.GreaterThan(hundred) {
		return domain.Malformed("percentage discount cannot exceed 100%%")
	}
	if minPurchase.IsNegative() {
		return domain.Malformed("minimum purchase must not be negative")
	}
	return nil
}

// classify passes domain errors through and marks everything else as an upstream failure.
func classify(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrForbidden):
		return err
	}
	return domain.Upstream(err, op)
}

// parseISO8601 parses an ISO8601 date string.
func parseISO8601(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid date format")
}
