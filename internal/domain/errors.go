package domain

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Validation failures are recoverable: the caller may retry with different input.
var (
	ErrInvalidCoupon         = errors.New("invalid coupon code")
	ErrCouponExpired         = errors.New("coupon has expired")
	ErrUsageLimitReached     = errors.New("coupon usage limit reached")
	ErrMinimumPurchaseNotMet = errors.New("minimum purchase not met")
	ErrAmountTooLow          = errors.New("amount is below the minimum chargeable amount")
	ErrMalformedInput        = errors.New("malformed input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrUpstream              = errors.New("upstream failure")
)

// MinimumPurchaseError carries the threshold the purchase failed to reach.
type MinimumPurchaseError struct {
	MinPurchase decimal.Decimal
}

func (e *MinimumPurchaseError) Error() string {
	return fmt.Sprintf("minimum purchase of %s required for this coupon", e.MinPurchase.StringFixed(2))
}

func (e *MinimumPurchaseError) Unwrap() error {
	return ErrMinimumPurchaseNotMet
}

// Malformed wraps ErrMalformedInput with a field-level reason.
func Malformed(format string, args ...interface{}) error {
	return errors.Wrap(ErrMalformedInput, fmt.Sprintf(format, args...))
}

// Upstream marks a store or gateway failure.
func Upstream(err error, op string) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}

type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}

// ErrorKind names the taxonomy entry for err, as exposed in API error bodies.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCoupon):
		return "InvalidCoupon"
	case errors.Is(err, ErrCouponExpired):
		return "CouponExpired"
	case errors.Is(err, ErrUsageLimitReached):
		return "UsageLimitReached"
	case errors.Is(err, ErrMinimumPurchaseNotMet):
		return "MinimumPurchaseNotMet"
	case errors.Is(err, ErrAmountTooLow):
		return "AmountTooLow"
	case errors.Is(err, ErrMalformedInput):
		return "MalformedInput"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	default:
		return "UpstreamFailure"
	}
}
