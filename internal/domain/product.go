package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductPatch carries the fields an admin update may change; nil means "leave as is".
type ProductPatch struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock"`
	Description *string          `json:"description"`
	Images      []string         `json:"images"`
}

type ProductFilter struct {
	Category string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)
	Delete(ctx context.Context, id string) error

	// GetPrices returns the authoritative unit price for every id that exists.
	// Missing ids are simply absent from the result.
	GetPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}
