package domain

import (
	"context"
	"strings"
	"time"
)

// CartRefSeparator splits a product reference from the disambiguating tag the
// storefront appends to keep otherwise identical cart rows apart (e.g. "<id>_xl").
const CartRefSeparator = "_"

type CartLine struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	ProductImage string    `json:"productImage"`
	Quantity     int       `json:"quantity"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BaseProductID strips the disambiguating suffix from a cart product reference.
func BaseProductID(ref string) string {
	base, _, _ := strings.Cut(strings.TrimSpace(ref), CartRefSeparator)
	return base
}

type CartRepository interface {
	Add(ctx context.Context, line *CartLine) error
	ListByEmail(ctx context.Context, email string) ([]CartLine, error)
	Delete(ctx context.Context, id string) error
	// DeleteClaimed removes the given lines owned by email and returns how many went away.
	DeleteClaimed(ctx context.Context, email string, ids []string) (int64, error)
}
