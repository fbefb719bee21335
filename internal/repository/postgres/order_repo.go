package pgrepo

import (
	"context"
	"ecommerce-backend/internal/domain"
	"time"

	"github.com/go-faster/errors"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, email, items, coupon_code, coupon_credited, subtotal, discount, shipping_fee, total_amount,
	district, delivery_status, delivered_at, payment_status, transaction_id, cart_ids, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                                   domain.Order
		items                               []byte
		subtotal, discount, shipping, total pgtype.Numeric
	)
	err := row.Scan(&o.ID, &o.Email, &items, &o.CouponCode, &o.CouponCredited, &subtotal, &discount, &shipping, &total,
		&o.District, &o.DeliveryStatus, &o.DeliveredAt, &o.PaymentStatus, &o.TransactionID, &o.CartIDs, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, errors.Wrap(err, "decode order items")
	}
	o.Subtotal = numericToDecimal(subtotal)
	o.Discount = numericToDecimal(discount)
	o.ShippingFee = numericToDecimal(shipping)
	o.TotalAmount = numericToDecimal(total)
	if o.CartIDs == nil {
		o.CartIDs = []string{}
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "encode order items")
	}
	if o.CartIDs == nil {
		o.CartIDs = []string{}
	}

	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO orders (email, items, coupon_code, coupon_credited, subtotal, discount, shipping_fee, total_amount,
			district, delivery_status, payment_status, transaction_id, cart_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		o.Email, items, o.CouponCode, o.CouponCredited,
		decimalToNumeric(o.Subtotal), decimalToNumeric(o.Discount), decimalToNumeric(o.ShippingFee), decimalToNumeric(o.TotalAmount),
		o.District, o.DeliveryStatus, o.PaymentStatus, o.TransactionID, o.CartIDs,
	)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if !validUUID(id) {
		return nil, domain.ErrNotFound
	}
	o, err := scanOrder(conn(ctx, r.db).QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "select order")
	}
	return o, nil
}

func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	offset := (filter.Page - 1) * filter.Limit
	if offset < 0 {
		offset = 0
	}

	db := conn(ctx, r.db)

	var total int64
	err := db.QueryRow(ctx, `
		SELECT count(*) FROM orders
		WHERE ($1 = '' OR email = $1) AND ($2 = '' OR delivery_status = $2)`,
		filter.Email, filter.DeliveryStatus,
	).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	rows, err := db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE ($1 = '' OR email = $1) AND ($2 = '' OR delivery_status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		filter.Email, filter.DeliveryStatus, filter.Limit, offset,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan order")
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "iterate orders")
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateDeliveryStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE orders SET
			delivery_status = $2,
			delivered_at    = COALESCE($3, delivered_at),
			updated_at      = now()
		WHERE id = $1`,
		id, status, deliveredAt,
	)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
