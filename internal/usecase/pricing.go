package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/logger"
	"math"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
)

// ShippingPolicy is a two-tier flat rate: one district ships cheaper, everything else pays the outside fee.
type ShippingPolicy struct {
	LocalDistrict string
	LocalFee      decimal.Decimal
	OutsideFee    decimal.Decimal
}

func (s ShippingPolicy) FeeFor(district string) decimal.Decimal {
	if s.LocalDistrict != "" && strings.EqualFold(strings.TrimSpace(district), s.LocalDistrict) {
		return s.LocalFee
	}
	return s.OutsideFee
}

// QuoteRequest is the input to a price computation.
type QuoteRequest struct {
	Items      []domain.LineItem
	CouponCode string
	District   string
}

// PricingEngine recomputes every charge from the catalog. It holds no state
// besides its collaborators and is safe for concurrent use.
type PricingEngine struct {
	products       domain.ProductRepository
	coupons        domain.CouponRepository
	shipping       ShippingPolicy
	minChargeMinor int64
	now            func() time.Time
}

type PricingOption func(*PricingEngine)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) PricingOption {
	return func(e *PricingEngine) {
		e.now = now
	}
}

func NewPricingEngine(products domain.ProductRepository, coupons domain.CouponRepository, shipping ShippingPolicy, minChargeMinor int64, opts ...PricingOption) *PricingEngine {
	e := &PricingEngine{
		products:       products,
		coupons:        coupons,
		shipping:       shipping,
		minChargeMinor: minChargeMinor,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *PricingEngine) Now() time.Time {
	return e.now()
}

// Subtotal prices each line at the catalog's unit price. Lines whose product
// reference is malformed or no longer resolves are skipped, not rejected:
// carts routinely outlive the products in them. A quantity above
// domain.MaxLineQuantity rejects the whole request.
func (e *PricingEngine) Subtotal(ctx context.Context, items []domain.LineItem) (decimal.Decimal, []domain.PricedLine, int, error) {
	ids := make([]string, 0, len(items))
	refs := make([]string, len(items))
	for i, item := range items {
		if item.Quantity > domain.MaxLineQuantity {
			return decimal.Zero, nil, 0, domain.Malformed("quantity %d exceeds the per-line maximum of %d", item.Quantity, domain.MaxLineQuantity)
		}
		// refs hold the canonical form, which is what the store keys prices by
		id, err := uuid.Parse(domain.BaseProductID(item.ProductID))
		if err != nil {
			continue
		}
		refs[i] = id.String()
		ids = append(ids, refs[i])
	}

	prices := map[string]decimal.Decimal{}
	if len(ids) > 0 {
		var err error
		prices, err = e.products.GetPrices(ctx, ids)
		if err != nil {
			return decimal.Zero, nil, 0, domain.Upstream(err, "load product prices")
		}
	}

	subtotal := decimal.Zero
	priced := make([]domain.PricedLine, 0, len(items))
	skipped := 0
	for i, item := range items {
		price, ok := prices[refs[i]]
		if refs[i] == "" || !ok {
			logger.WithContext(ctx).Debug().Str("product_ref", item.ProductID).Msg("Pricing: skipping unresolvable cart line")
			skipped++
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		priced = append(priced, domain.PricedLine{ProductID: refs[i], Quantity: qty, UnitPrice: price})
	}

	return subtotal, priced, skipped, nil
}

// CheckCoupon applies the validation rules in their fixed order. Expiry is
// inclusive: a coupon expiring exactly now is still usable.
func CheckCoupon(c *domain.Coupon, purchase decimal.Decimal, now time.Time) error {
	if c == nil || !c.IsActive {
		return domain.ErrInvalidCoupon
	}
	if now.After(c.ExpiryDate) {
		return domain.ErrCouponExpired
	}
	if c.UsedCount >= c.UsageLimit {
		return domain.ErrUsageLimitReached
	}
	if purchase.LessThan(c.MinPurchase) {
		return &domain.MinimumPurchaseError{MinPurchase: c.MinPurchase}
	}
	return nil
}

// ValidateCoupon looks up code and checks it against purchase.
func (e *PricingEngine) ValidateCoupon(ctx context.Context, code string, purchase decimal.Decimal) (*domain.CouponTerms, error) {
	code = domain.CanonicalCouponCode(code)
	if code == "" {
		return nil, domain.ErrInvalidCoupon
	}

	coupon, err := e.coupons.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCoupon
		}
		return nil, domain.Upstream(err, "load coupon")
	}

	if err := CheckCoupon(coupon, purchase, e.now()); err != nil {
		return nil, err
	}
	return coupon.Terms(), nil
}

// ApplyDiscount never returns more than subtotal, whatever the coupon type.
func ApplyDiscount(subtotal decimal.Decimal, terms *domain.CouponTerms) decimal.Decimal {
	if terms == nil || subtotal.LessThan(terms.MinPurchase) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch terms.DiscountType {
	case domain.DiscountFixed:
		discount = terms.DiscountValue
	case domain.DiscountPercent:
		discount = subtotal.Mul(terms.DiscountValue).Div(hundred).Round(2)
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}

// ToMinorUnits rounds to the nearest cent, halves away from zero. Amounts
// that do not fit in an int64 are rejected.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(hundred).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return 0, domain.Malformed("amount %s is too large to charge", amount.StringFixed(2))
	}
	return minor.IntPart(), nil
}

// Quote computes subtotal, discount, shipping and total. A coupon that fails
// validation does not fail the quote; it is reported in CouponRejected and
// contributes no discount.
func (e *PricingEngine) Quote(ctx context.Context, req QuoteRequest) (*domain.PricingResult, error) {
	subtotal, priced, skipped, err := e.Subtotal(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	res := &domain.PricingResult{
		Subtotal:     subtotal,
		Discount:     decimal.Zero,
		PricedLines:  priced,
		SkippedLines: skipped,
	}

	if code := domain.CanonicalCouponCode(req.CouponCode); code != "" {
		terms, err := e.ValidateCoupon(ctx, code, subtotal)
		switch {
		case err == nil:
			res.Discount = ApplyDiscount(subtotal, terms)
			res.CouponCode = terms.Code
		case errors.Is(err, domain.ErrUpstream):
			return nil, err
		default:
			res.CouponRejected = err.Error()
		}
	}

	res.ShippingFee = e.shipping.FeeFor(req.District)
	res.Total = subtotal.Sub(res.Discount).Add(res.ShippingFee)
	res.AmountMinor, err = ToMinorUnits(res.Total)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// QuoteForPayment is Quote plus the gateway's minimum chargeable amount check.
func (e *PricingEngine) QuoteForPayment(ctx context.Context, req QuoteRequest) (*domain.PricingResult, error) {
	res, err := e.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.AmountMinor < e.minChargeMinor {
		return res, errors.Wrapf(domain.ErrAmountTooLow, "%d minor units is below the minimum of %d", res.AmountMinor, e.minChargeMinor)
	}
	return res, nil
}
