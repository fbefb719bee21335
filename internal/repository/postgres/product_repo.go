package pgrepo

import (
	"context"
	"ecommerce-backend/internal/domain"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, price, category, stock, description, images, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price pgtype.Numeric
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Category, &p.Stock, &p.Description, &p.Images, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Price = numericToDecimal(price)
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO products (name, price, category, stock, description, images)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.Name, decimalToNumeric(p.Price), p.Category, p.Stock, p.Description, p.Images,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if !validUUID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := scanProduct(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "select product")
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE ($1 = '' OR lower(category) = lower($1))
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		filter.Category, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		products = append(products, *p)
	}
	return products, errors.Wrap(rows.Err(), "iterate products")
}

func (r *productRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if !validUUID(id) {
		return nil, domain.ErrNotFound
	}
	var price *pgtype.Numeric
	if patch.Price != nil {
		n := decimalToNumeric(*patch.Price)
		price = &n
	}
	p, err := scanProduct(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE products SET
			name        = COALESCE($2, name),
			price       = COALESCE($3, price),
			category    = COALESCE($4, category),
			stock       = COALESCE($5, stock),
			description = COALESCE($6, description),
			images      = COALESCE($7, images),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, patch.Name, price, patch.Category, patch.Stock, patch.Description, patch.Images,
	))
	if err != nil {
		return nil, notFound(err, "update product")
	}
	return p, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) GetPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return prices, nil
	}

	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, price FROM products WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "select product prices")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			price pgtype.Numeric
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, errors.Wrap(err, "scan product price")
		}
		prices[id] = numericToDecimal(price)
	}
	return prices, errors.Wrap(rows.Err(), "iterate product prices")
}
