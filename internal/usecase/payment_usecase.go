package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/telemetry"
	"ecommerce-backend/pkg/logger"
	"strconv"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
)

type PaymentUsecase struct {
	pricing  *PricingEngine
	gateway  domain.PaymentGateway
	currency string
	metrics  *telemetry.Metrics
}

func NewPaymentUsecase(pricing *PricingEngine, gateway domain.PaymentGateway, currency string, metrics *telemetry.Metrics) *PaymentUsecase {
	return &PaymentUsecase{
		pricing:  pricing,
		gateway:  gateway,
		currency: currency,
		metrics:  metrics,
	}
}

// PaymentIntentReq is the checkout basket as the client sees it. Prices are
// deliberately absent.
type PaymentIntentReq struct {
	Items      []domain.LineItem `json:"items"`
	CouponCode string            `json:"couponCode,omitempty"`
	District   string            `json:"district,omitempty"`
}

type PaymentIntentResp struct {
	ClientSecret string `json:"clientSecret"`
	*domain.PricingResult
}

// CreatePaymentIntent prices the basket server-side and asks the gateway for
// an intent for exactly that amount. The gateway is never called for an
// amount below its minimum.
func (u *PaymentUsecase) CreatePaymentIntent(ctx context.Context, email string, req PaymentIntentReq) (resp *PaymentIntentResp, err error) {
	ctx, span := telemetry.StartSpan(ctx, "usecase.CreatePaymentIntent")
	defer func() {
		u.metrics.RecordPaymentIntent(ctx, paymentOutcome(err))
		telemetry.EndSpan(span, err)
	}()

	if len(req.Items) == 0 {
		return nil, domain.Malformed("items must not be empty")
	}

	quote, err := u.pricing.QuoteForPayment(ctx, QuoteRequest{
		Items:      req.Items,
		CouponCode: req.CouponCode,
		District:   req.District,
	})
	if err != nil {
		return nil, err
	}
	u.metrics.RecordSkippedLines(ctx, quote.SkippedLines)
	span.SetAttributes(attribute.Int64("payment.amount_minor", quote.AmountMinor))

	metadata := map[string]string{
		"email":    email,
		"subtotal": quote.Subtotal.StringFixed(2),
		"discount": quote.Discount.StringFixed(2),
		"shipping": quote.ShippingFee.StringFixed(2),
		"lines":    strconv.Itoa(len(quote.PricedLines)),
	}
	if quote.CouponCode != "" {
		metadata["coupon"] = quote.CouponCode
	}

	intent, err := u.gateway.CreateIntent(ctx, quote.AmountMinor, u.currency, metadata)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Int64("amount", quote.AmountMinor).Msg("Payment: gateway rejected intent")
		return nil, domain.Upstream(err, "create payment intent")
	}

	logger.WithContext(ctx).Info().
		Str("intent_id", intent.ID).
		Int64("amount", quote.AmountMinor).
		Str("currency", u.currency).
		Msg("Payment: intent created")

	return &PaymentIntentResp{ClientSecret: intent.ClientSecret, PricingResult: quote}, nil
}

func paymentOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrAmountTooLow):
		return "amount_too_low"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream_error"
	default:
		return "rejected"
	}
}
