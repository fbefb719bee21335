package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponFixture(coupons ...domain.Coupon) (*CouponUsecase, *memCoupons) {
	repo := newMemCoupons(coupons...)
	return NewCouponUsecase(repo, newTestEngine(newMemProducts(), repo)), repo
}

func TestCreateCoupon(t *testing.T) {
	uc, repo := newCouponFixture()
	ctx := context.Background()

	c, err := uc.CreateCoupon(ctx, CreateCouponRequest{
		Code:          " summer ",
		DiscountType:  "percentage",
		DiscountValue: dec("15"),
		MinPurchase:   dec("200"),
		UsageLimit:    10,
		ExpiryDate:    "2026-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER", c.Code)
	assert.Equal(t, domain.DiscountPercent, c.DiscountType)
	assert.Zero(t, c.UsedCount)
	assert.True(t, c.IsActive)

	exists, _ := repo.Exists(ctx, "SUMMER")
	assert.True(t, exists)

	_, err = uc.CreateCoupon(ctx, CreateCouponRequest{
		Code: "summer", DiscountType: "fixed", DiscountValue: dec("5"), UsageLimit: 1, ExpiryDate: "2026-12-31",
	})
	assert.ErrorIs(t, err, domain.ErrMalformedInput, "duplicate code")
}

func TestCreateCoupon_RejectsBadTerms(t *testing.T) {
	uc, _ := newCouponFixture()
	valid := CreateCouponRequest{Code: "OK", DiscountType: "fixed", DiscountValue: dec("5"), UsageLimit: 1, ExpiryDate: "2026-12-31T00:00:00Z"}

	cases := map[string]func(r *CreateCouponRequest){
		"empty code":       func(r *CreateCouponRequest) { r.Code = "  " },
		"unknown type":     func(r *CreateCouponRequest) { r.DiscountType = "bogo" },
		"zero value":       func(r *CreateCouponRequest) { r.DiscountValue = dec("0") },
		"percent over 100": func(r *CreateCouponRequest) { r.DiscountType = "percent"; r.DiscountValue = dec("101") },
		"negative minimum": func(r *CreateCouponRequest) { r.MinPurchase = dec("-1") },
		"negative limit":   func(r *CreateCouponRequest) { r.UsageLimit = -1 },
		"bad expiry":       func(r *CreateCouponRequest) { r.ExpiryDate = "next tuesday" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			_, err := uc.CreateCoupon(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}

func TestValidateCoupon(t *testing.T) {
	uc, _ := newCouponFixture(coupon("TEN", domain.DiscountFixed, "10", "50", 2))
	ctx := context.Background()

	terms, err := uc.ValidateCoupon(ctx, "ten", dec("60"))
	require.NoError(t, err)
	assert.Equal(t, "TEN", terms.Code)
	assert.True(t, terms.DiscountValue.Equal(dec("10")))

	_, err = uc.ValidateCoupon(ctx, "TEN", dec("49.99"))
	assert.ErrorIs(t, err, domain.ErrMinimumPurchaseNotMet)

	_, err = uc.ValidateCoupon(ctx, "NOPE", dec("60"))
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)

	_, err = uc.ValidateCoupon(ctx, "", dec("60"))
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)
}

func TestIncrementUsage(t *testing.T) {
	uc, repo := newCouponFixture(coupon("ONE", domain.DiscountFixed, "10", "0", 1))
	ctx := context.Background()

	require.NoError(t, uc.IncrementUsage(ctx, "one", "a@example.com"))
	assert.Equal(t, 1, repo.get("ONE").UsedCount)

	assert.ErrorIs(t, uc.IncrementUsage(ctx, "ONE", "b@example.com"), domain.ErrUsageLimitReached)
	assert.Equal(t, 1, repo.get("ONE").UsedCount)

	assert.ErrorIs(t, uc.IncrementUsage(ctx, "MISSING", "a@example.com"), domain.ErrInvalidCoupon)
}

func TestUpdateAndToggleCoupon(t *testing.T) {
	uc, repo := newCouponFixture(
		coupon("OLD", domain.DiscountPercent, "10", "0", 5),
		coupon("TAKEN", domain.DiscountFixed, "5", "0", 5),
	)
	ctx := context.Background()
	id := repo.get("OLD").ID

	err := uc.UpdateCoupon(ctx, id, UpdateCouponRequest{Code: "taken", DiscountValue: dec("10"), ExpiryDate: "2026-12-31", IsActive: true})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	err = uc.UpdateCoupon(ctx, id, UpdateCouponRequest{Code: "OLD", DiscountValue: dec("120"), ExpiryDate: "2026-12-31", IsActive: true})
	assert.ErrorIs(t, err, domain.ErrMalformedInput, "percent coupons stay within 100")

	require.NoError(t, uc.UpdateCoupon(ctx, id, UpdateCouponRequest{Code: "new", DiscountValue: dec("20"), ExpiryDate: "2026-12-31", IsActive: true}))
	assert.True(t, repo.get("NEW").DiscountValue.Equal(dec("20")))

	require.NoError(t, uc.SetCouponStatus(ctx, id, false))
	assert.False(t, repo.get("NEW").IsActive)

	assert.ErrorIs(t, uc.DeleteCoupon(ctx, "missing"), domain.ErrNotFound)
	require.NoError(t, uc.DeleteCoupon(ctx, id))
}
