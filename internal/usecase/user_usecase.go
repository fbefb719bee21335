package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/utils"
	"slices"
	"strings"

	"github.com/go-faster/errors"
)

type UserUsecase struct {
	repo domain.UserRepository
}

func NewUserUsecase(repo domain.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

type RegisterUserReq struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
}

// Register records the caller on first sign-in and refreshes their profile
// afterwards. It never changes an existing role.
func (uc *UserUsecase) Register(ctx context.Context, caller *domain.Principal, req RegisterUserReq) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	email := utils.NormalizeEmail(caller.Email)
	if email == "" {
		return nil, domain.Malformed("token carries no email")
	}

	user := &domain.User{
		Email:    email,
		Name:     strings.TrimSpace(req.Name),
		PhotoURL: strings.TrimSpace(req.PhotoURL),
		Role:     domain.RoleUser,
	}
	if err := uc.repo.Upsert(ctx, user); err != nil {
		return nil, domain.Upstream(err, "upsert user")
	}
	return user, nil
}

// Me returns the caller's stored profile, or a transient one carrying the
// default role if they never registered.
func (uc *UserUsecase) Me(ctx context.Context, caller *domain.Principal) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.repo.GetByEmail(ctx, utils.NormalizeEmail(caller.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.User{Email: caller.Email, Role: domain.RoleUser}, nil
		}
		return nil, domain.Upstream(err, "load user")
	}
	return user, nil
}

func (uc *UserUsecase) ListUsers(ctx context.Context, page, limit int) ([]domain.User, domain.Pagination, error) {
	page, limit, offset := utils.PageOffset(page, limit, maxPageSize)
	users, total, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.Pagination{}, domain.Upstream(err, "list users")
	}
	return users, domain.NewPagination(page, limit, total), nil
}

func (uc *UserUsecase) UpdateRole(ctx context.Context, id, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !slices.Contains([]string{domain.RoleUser, domain.RoleAdmin}, role) {
		return domain.Malformed("unknown role %q", role)
	}
	if err := uc.repo.UpdateRole(ctx, id, role); err != nil {
		return classify(err, "update user role")
	}
	logger.WithContext(ctx).Info().Str("user_id", id).Str("role", role).Msg("User: role changed")
	return nil
}
