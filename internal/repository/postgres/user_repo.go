package pgrepo

import (
	"context"
	"ecommerce-backend/internal/domain"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, u *domain.User) error {
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO users (email, name, photo_url, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			name       = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			photo_url  = COALESCE(NULLIF(EXCLUDED.photo_url, ''), users.photo_url),
			updated_at = now()
		RETURNING id, name, photo_url, role, created_at, updated_at`,
		u.Email, u.Name, u.PhotoURL, u.Role,
	)
	if err := row.Scan(&u.ID, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return errors.Wrap(err, "upsert user")
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT id, email, name, photo_url, role, created_at, updated_at
		FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "select user")
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	rows, err := db.Query(ctx, `
		SELECT id, email, name, photo_url, role, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, errors.Wrap(err, "scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "iterate users")
	}
	return users, total, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id, role string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role)
	if err != nil {
		return errors.Wrap(err, "update user role")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
