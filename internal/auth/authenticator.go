// Package auth turns bearer tokens into principals and decides what they may do.
package auth

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/utils"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

// Authenticator verifies a bearer token and reports who it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// BearerToken extracts the token from the Authorization header, falling back
// to the accessToken cookie.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

// PrincipalResolver attaches a role to a verified identity. Roles live in the
// users table, never in the token, so a demotion takes effect on the next request.
type PrincipalResolver struct {
	users domain.UserRepository
}

func NewPrincipalResolver(users domain.UserRepository) *PrincipalResolver {
	return &PrincipalResolver{users: users}
}

func (r *PrincipalResolver) Resolve(ctx context.Context, id *domain.Identity) (*domain.Principal, error) {
	email := utils.NormalizeEmail(id.Email)
	p := &domain.Principal{Subject: id.Subject, Email: email, Role: domain.RoleUser}
	if email == "" {
		return p, nil
	}

	user, err := r.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		p.Role = user.Role
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, domain.Upstream(err, "resolve role")
	}
	return p, nil
}

// PrincipalFrom returns the principal the Authenticate middleware stored, or nil.
func PrincipalFrom(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(domain.PrincipalContextKey).(*domain.Principal)
	return p
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, domain.PrincipalContextKey, p)
}
