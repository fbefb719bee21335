package domain

import (
	"context"
	"time"
)

type ContextKey string

const PrincipalContextKey ContextKey = "principal"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoUrl"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is what a verified token proves: who the caller is, not what they may do.
type Identity struct {
	Subject string
	Email   string
}

// Principal is an authenticated caller with its resolved role.
type Principal struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

type UserRepository interface {
	// Upsert inserts the user or refreshes name/photo; existing roles are kept.
	Upsert(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]User, int64, error)
	UpdateRole(ctx context.Context, id, role string) error
}
