package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/utils"
	"strings"
)

// CartUsecase manages the per-email cart lines the storefront keeps server-side.
type CartUsecase struct {
	repo domain.CartRepository
}

func NewCartUsecase(repo domain.CartRepository) *CartUsecase {
	return &CartUsecase{repo: repo}
}

type AddToCartReq struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductImage string `json:"productImage"`
	Quantity     int    `json:"quantity"`
	Email        string `json:"email"`
}

// AddToCart stores a new line for the caller. Admins may add on behalf of
// another email; everyone else always adds to their own cart.
func (uc *CartUsecase) AddToCart(ctx context.Context, caller *domain.Principal, req AddToCartReq) (*domain.CartLine, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, domain.Malformed("productId is required")
	}
	if req.Quantity > domain.MaxLineQuantity {
		return nil, domain.Malformed("quantity may not exceed %d", domain.MaxLineQuantity)
	}
	email, err := ownerEmail(caller, req.Email)
	if err != nil {
		return nil, err
	}
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}

	line := &domain.CartLine{
		ProductID:    strings.TrimSpace(req.ProductID),
		ProductName:  req.ProductName,
		ProductImage: req.ProductImage,
		Quantity:     qty,
		Email:        email,
	}
	if err := uc.repo.Add(ctx, line); err != nil {
		return nil, domain.Upstream(err, "add cart line")
	}
	return line, nil
}

func (uc *CartUsecase) ListCart(ctx context.Context, caller *domain.Principal, email string) ([]domain.CartLine, error) {
	owner, err := ownerEmail(caller, email)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repo.ListByEmail(ctx, owner)
	if err != nil {
		return nil, domain.Upstream(err, "list cart")
	}
	return lines, nil
}

// RemoveFromCart deletes one line. Only lines in the caller's own cart are
// visible to non-admins, so anything else reports not found.
func (uc *CartUsecase) RemoveFromCart(ctx context.Context, caller *domain.Principal, id string) error {
	if !caller.IsAdmin() {
		lines, err := uc.repo.ListByEmail(ctx, utils.NormalizeEmail(caller.Email))
		if err != nil {
			return domain.Upstream(err, "list cart")
		}
		owned := false
		for _, l := range lines {
			if l.ID == id {
				owned = true
				break
			}
		}
		if !owned {
			return domain.ErrNotFound
		}
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return classify(err, "delete cart line")
	}
	return nil
}

// ownerEmail resolves whose cart a request addresses. An empty requested
// email means the caller's own.
func ownerEmail(caller *domain.Principal, requested string) (string, error) {
	if caller == nil {
		return "", domain.ErrUnauthorized
	}
	own := utils.NormalizeEmail(caller.Email)
	requested = utils.NormalizeEmail(requested)
	if requested == "" || requested == own {
		if own == "" {
			return "", domain.Malformed("email is required")
		}
		return own, nil
	}
	if !caller.IsAdmin() {
		return "", domain.ErrForbidden
	}
	return requested, nil
}
