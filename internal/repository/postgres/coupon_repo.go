package pgrepo

import (
	"context"
	"ecommerce-backend/internal/domain"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type couponRepository struct {
	db *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) domain.CouponRepository {
	return &couponRepository{db: db}
}

const couponColumns = `id, code, discount_type, discount_value, min_purchase, usage_limit, used_count, expiry_date, is_active, used_by, created_at`

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var (
		c                  domain.Coupon
		value, minPurchase pgtype.Numeric
		kind               string
	)
	err := row.Scan(&c.ID, &c.Code, &kind, &value, &minPurchase, &c.UsageLimit, &c.UsedCount, &c.ExpiryDate, &c.IsActive, &c.UsedBy, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.DiscountType = domain.DiscountType(kind)
	c.DiscountValue = numericToDecimal(value)
	c.MinPurchase = numericToDecimal(minPurchase)
	if c.UsedBy == nil {
		c.UsedBy = []string{}
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	if c.UsedBy == nil {
		c.UsedBy = []string{}
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO coupons (code, discount_type, discount_value, min_purchase, usage_limit, used_count, expiry_date, is_active, used_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		c.Code, string(c.DiscountType), decimalToNumeric(c.DiscountValue), decimalToNumeric(c.MinPurchase),
		c.UsageLimit, c.UsedCount, c.ExpiryDate, c.IsActive, c.UsedBy,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return duplicateCode(err, "insert coupon")
	}
	return nil
}

func (r *couponRepository) GetActiveByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	c, err := scanCoupon(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1 AND is_active`, code))
	if err != nil {
		return nil, notFound(err, "select coupon by code")
	}
	return c, nil
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	if !validUUID(id) {
		return nil, domain.ErrNotFound
	}
	c, err := scanCoupon(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "select coupon")
	}
	return c, nil
}

func (r *couponRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list coupons")
	}
	defer rows.Close()

	coupons := []domain.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan coupon")
		}
		coupons = append(coupons, *c)
	}
	return coupons, errors.Wrap(rows.Err(), "iterate coupons")
}

func (r *couponRepository) Update(ctx context.Context, id string, u domain.CouponUpdate) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE coupons SET
			code = $2, discount_value = $3, min_purchase = $4, expiry_date = $5, is_active = $6
		WHERE id = $1`,
		id, u.Code, decimalToNumeric(u.DiscountValue), decimalToNumeric(u.MinPurchase), u.ExpiryDate, u.IsActive,
	)
	if err != nil {
		return duplicateCode(err, "update coupon")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *couponRepository) SetActive(ctx context.Context, id string, active bool) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE coupons SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return errors.Wrap(err, "set coupon status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete coupon")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *couponRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check coupon exists")
	}
	return exists, nil
}

// Redeem is the only path that moves used_count. The guard lives in the
// WHERE clause so concurrent redemptions of the last slot serialize on the
// row lock and exactly one of them matches.
func (r *couponRepository) Redeem(ctx context.Context, code, email string, now time.Time) (bool, error) {
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE coupons SET
			used_count = used_count + 1,
			used_by    = CASE WHEN $2 = '' OR $2 = ANY(used_by) THEN used_by ELSE array_append(used_by, $2) END
		WHERE code = $1
		  AND is_active
		  AND expiry_date >= $3
		  AND used_count < usage_limit`,
		code, email, now,
	)
	if err != nil {
		return false, errors.Wrap(err, "redeem coupon")
	}
	return tag.RowsAffected() == 1, nil
}

func duplicateCode(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.Malformed("coupon code already exists")
	}
	return errors.Wrap(err, op)
}
