package pgrepo

import (
	"context"
	"ecommerce-backend/internal/domain"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

type cartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Add(ctx context.Context, line *domain.CartLine) error {
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO cart_lines (product_id, product_name, product_image, quantity, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		line.ProductID, line.ProductName, line.ProductImage, line.Quantity, line.Email,
	)
	if err := row.Scan(&line.ID, &line.CreatedAt); err != nil {
		return errors.Wrap(err, "insert cart line")
	}
	return nil
}

func (r *cartRepository) ListByEmail(ctx context.Context, email string) ([]domain.CartLine, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id, product_id, product_name, product_image, quantity, email, created_at
		FROM cart_lines
		WHERE email = $1
		ORDER BY created_at`, email)
	if err != nil {
		return nil, errors.Wrap(err, "list cart lines")
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.ProductImage, &l.Quantity, &l.Email, &l.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan cart line")
		}
		lines = append(lines, l)
	}
	return lines, errors.Wrap(rows.Err(), "iterate cart lines")
}

func (r *cartRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete cart line")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteClaimed(ctx context.Context, email string, ids []string) (int64, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM cart_lines WHERE email = $1 AND id = ANY($2::uuid[])`, email, ids)
	if err != nil {
		return 0, errors.Wrap(err, "delete claimed cart lines")
	}
	return tag.RowsAffected(), nil
}
