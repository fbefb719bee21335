package auth

import (
	"ecommerce-backend/internal/domain"
	_ "embed"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"github.com/go-faster/errors"
)

//go:embed rbac_model.conf
var rbacModel string

//go:embed rbac_policy.csv
var rbacPolicy string

// Resources and actions named in rbac_policy.csv.
const (
	ResourceProducts = "products"
	ResourceCarts    = "carts"
	ResourceOrders   = "orders"
	ResourcePayments = "payments"
	ResourceCoupons  = "coupons"
	ResourceProfile  = "profile"
	ResourceUsers    = "users"
	ResourceStats    = "stats"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionCreate = "create"
	ActionRedeem = "redeem"
	ActionManage = "manage"
)

// Authorizer answers whether a principal's role may perform action on resource.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds the enforcer from the embedded role model and policy.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, errors.Wrap(err, "parse rbac model")
	}
	e, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(rbacPolicy))
	if err != nil {
		return nil, errors.Wrap(err, "create enforcer")
	}
	return &Authorizer{enforcer: e}, nil
}

func (a *Authorizer) Allowed(p *domain.Principal, resource, action string) (bool, error) {
	if p == nil {
		return false, nil
	}
	role := p.Role
	if role == "" {
		role = domain.RoleUser
	}
	ok, err := a.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false, errors.Wrap(err, "enforce")
	}
	return ok, nil
}
