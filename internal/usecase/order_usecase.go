package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/telemetry"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/utils"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type OrderUsecase struct {
	orderRepo  domain.OrderRepository
	cartRepo   domain.CartRepository
	couponRepo domain.CouponRepository
	pricing    *PricingEngine
	txManager  domain.TransactionManager
	metrics    *telemetry.Metrics
}

func NewOrderUsecase(orderRepo domain.OrderRepository, cartRepo domain.CartRepository, couponRepo domain.CouponRepository, pricing *PricingEngine, txManager domain.TransactionManager, metrics *telemetry.Metrics) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		pricing:    pricing,
		txManager:  txManager,
		metrics:    metrics,
	}
}

// PlaceOrderReq is the checkout payload. TotalAmount is what the client
// displayed; it is recorded in the logs when it disagrees with the server's
// figure but never persisted.
type PlaceOrderReq struct {
	Items         []domain.LineItem `json:"items"`
	TotalAmount   *decimal.Decimal  `json:"totalAmount"`
	CouponCode    string            `json:"couponCode,omitempty"`
	CartIDs       []string          `json:"cartIds,omitempty"`
	District      string            `json:"district,omitempty"`
	PaymentStatus string            `json:"paymentStatus,omitempty"`
	TransactionID string            `json:"transactionId,omitempty"`
}

// PlaceOrder prices the order from the catalog and then, in one transaction,
// credits the coupon, persists the order and clears the claimed cart lines.
func (u *OrderUsecase) PlaceOrder(ctx context.Context, email string, req PlaceOrderReq) (order *domain.Order, err error) {
	ctx, span := telemetry.StartSpan(ctx, "usecase.PlaceOrder")
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.WithContext(ctx)

	if len(req.Items) == 0 {
		return nil, domain.Malformed("order has no items")
	}
	if req.TotalAmount == nil {
		return nil, domain.Malformed("totalAmount is required")
	}
	paymentStatus := strings.ToLower(strings.TrimSpace(req.PaymentStatus))
	if paymentStatus == "" {
		paymentStatus = domain.PaymentUnpaid
	}
	if !slices.Contains(domain.PaymentStatuses, paymentStatus) {
		return nil, domain.Malformed("unknown payment status %q", req.PaymentStatus)
	}

	quote, err := u.pricing.Quote(ctx, QuoteRequest{
		Items:      req.Items,
		CouponCode: req.CouponCode,
		District:   req.District,
	})
	if err != nil {
		return nil, err
	}
	u.metrics.RecordSkippedLines(ctx, quote.SkippedLines)
	if len(quote.PricedLines) == 0 {
		return nil, domain.Malformed("none of the order items refer to an existing product")
	}

	if !req.TotalAmount.Equal(quote.Total) {
		log.Warn().
			Str("client_total", req.TotalAmount.StringFixed(2)).
			Str("server_total", quote.Total.StringFixed(2)).
			Msg("Order: client total differs from computed total, using computed total")
	}
	if quote.CouponRejected != "" {
		log.Info().Str("coupon", req.CouponCode).Str("reason", quote.CouponRejected).Msg("Order: coupon not applied")
	}

	items := make([]domain.OrderItem, 0, len(quote.PricedLines))
	for _, line := range quote.PricedLines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	order = &domain.Order{
		Email:          email,
		Items:          items,
		CouponCode:     domain.CanonicalCouponCode(req.CouponCode),
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		ShippingFee:    quote.ShippingFee,
		TotalAmount:    quote.Total,
		District:       strings.TrimSpace(req.District),
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  paymentStatus,
		TransactionID:  strings.TrimSpace(req.TransactionID),
		CartIDs:        req.CartIDs,
	}
	if order.CartIDs == nil {
		order.CartIDs = []string{}
	}

	var cleared int64
	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		// Only a coupon that priced this order is credited.
		if quote.CouponCode != "" {
			credited, err := u.couponRepo.Redeem(txCtx, quote.CouponCode, email, u.pricing.Now())
			if err != nil {
				return domain.Upstream(err, "redeem coupon")
			}
			order.CouponCredited = credited
		}

		if err := u.orderRepo.Create(txCtx, order); err != nil {
			return domain.Upstream(err, "create order")
		}

		n, err := u.cartRepo.DeleteClaimed(txCtx, email, order.CartIDs)
		if err != nil {
			return domain.Upstream(err, "clear cart")
		}
		cleared = n
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Order: placement failed")
		return nil, err
	}

	if quote.CouponCode != "" {
		u.metrics.RecordCouponRedemption(ctx, order.CouponCredited)
		if !order.CouponCredited {
			log.Info().Str("coupon", quote.CouponCode).Str("order_id", order.ID).Msg("Order: coupon no longer redeemable, usage not credited")
		}
	}
	u.metrics.RecordOrderPlaced(ctx, order.CouponCredited)
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Bool("order.coupon_credited", order.CouponCredited),
	)

	log.Info().
		Str("order_id", order.ID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Int64("cart_lines_cleared", cleared).
		Msg("Order: placed")
	return order, nil
}

// ListOrders returns orders for email, or all orders when email is empty.
func (u *OrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, domain.Pagination, error) {
	filter.Page, filter.Limit, _ = utils.PageOffset(filter.Page, filter.Limit, maxPageSize)
	if filter.DeliveryStatus != "" && !slices.Contains(domain.DeliveryStatuses, filter.DeliveryStatus) {
		return nil, domain.Pagination{}, domain.Malformed("unknown delivery status %q", filter.DeliveryStatus)
	}

	orders, total, err := u.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, domain.Upstream(err, "list orders")
	}
	return orders, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

// deliveryRank orders the delivery pipeline. Cancelled sits outside it.
var deliveryRank = map[string]int{
	domain.DeliveryPending:   0,
	domain.DeliveryConfirmed: 1,
	domain.DeliverySuccess:   2,
}

// UpdateDeliveryStatus moves an order forward through pending, confirmed and
// success. Pending and confirmed orders may also be cancelled. Success and
// cancelled are final.
func (u *OrderUsecase) UpdateDeliveryStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !slices.Contains(domain.DeliveryStatuses, status) {
		return nil, domain.Malformed("unknown delivery status %q", status)
	}

	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "load order")
	}

	if order.DeliveryStatus == status {
		return order, nil
	}
	if order.DeliveryStatus == domain.DeliverySuccess || order.DeliveryStatus == domain.DeliveryCancelled {
		return nil, domain.Malformed("order is already %s", order.DeliveryStatus)
	}
	if status != domain.DeliveryCancelled && deliveryRank[status] < deliveryRank[order.DeliveryStatus] {
		return nil, domain.Malformed("cannot move order from %s back to %s", order.DeliveryStatus, status)
	}

	deliveredAt := order.DeliveredAt
	if status == domain.DeliverySuccess {
		now := u.pricing.Now()
		deliveredAt = &now
	}

	if err := u.orderRepo.UpdateDeliveryStatus(ctx, id, status, deliveredAt); err != nil {
		return nil, classify(err, "update order status")
	}

	logger.WithContext(ctx).Info().Str("order_id", id).Str("from", order.DeliveryStatus).Str("to", status).Msg("Order: delivery status changed")

	order.DeliveryStatus = status
	order.DeliveredAt = deliveredAt
	return order, nil
}
