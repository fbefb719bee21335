package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics are the shop's business counters. A nil *Metrics records nothing.
type Metrics struct {
	paymentIntents    metric.Int64Counter
	ordersPlaced      metric.Int64Counter
	couponRedemptions metric.Int64Counter
	skippedCartLines  metric.Int64Counter
}

// NewMetrics registers the counters on meter. Pass nil to use the global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	m := &Metrics{}

	var err error
	m.paymentIntents, err = meter.Int64Counter(
		"payment_intents_total",
		metric.WithDescription("Payment intents requested, by outcome"),
		metric.WithUnit("{intent}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_intents_total counter: %w", err)
	}

	m.ordersPlaced, err = meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Orders persisted"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_placed_total counter: %w", err)
	}

	m.couponRedemptions, err = meter.Int64Counter(
		"coupon_redemptions_total",
		metric.WithDescription("Coupon usage accounting attempts at order completion, by result"),
		metric.WithUnit("{redemption}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create coupon_redemptions_total counter: %w", err)
	}

	m.skippedCartLines, err = meter.Int64Counter(
		"pricing_skipped_lines_total",
		metric.WithDescription("Cart lines ignored during subtotal computation"),
		metric.WithUnit("{line}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pricing_skipped_lines_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordPaymentIntent(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.paymentIntents.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordOrderPlaced(ctx context.Context, withCoupon bool) {
	if m == nil {
		return
	}
	m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.Bool("coupon", withCoupon)))
}

func (m *Metrics) RecordCouponRedemption(ctx context.Context, credited bool) {
	if m == nil {
		return
	}
	result := "credited"
	if !credited {
		result = "skipped"
	}
	m.couponRedemptions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *Metrics) RecordSkippedLines(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedCartLines.Add(ctx, int64(n))
}
