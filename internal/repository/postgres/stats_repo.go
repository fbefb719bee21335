package pgrepo

import (
	"context"
	"ecommerce-backend/internal/domain"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type statsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) domain.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		s       domain.DashboardStats
		revenue pgtype.Numeric
	)
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE delivery_status = $1),
			(SELECT count(*) FROM users),
			(SELECT COALESCE(sum(total_amount), 0) FROM orders WHERE payment_status = $2),
			(SELECT count(*) FROM coupons WHERE is_active AND expiry_date >= now() AND used_count < usage_limit)`,
		domain.DeliveryPending, domain.PaymentPaid,
	).Scan(&s.Products, &s.Orders, &s.PendingOrders, &s.Users, &revenue, &s.ActiveCoupons)
	if err != nil {
		return nil, errors.Wrap(err, "load dashboard stats")
	}
	s.Revenue = numericToDecimal(revenue)
	return &s, nil
}
