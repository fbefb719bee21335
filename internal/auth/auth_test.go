package auth

import (
	"context"
	"ecommerce-backend/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	a, err := NewJWTAuthenticator("s3cret")
	require.NoError(t, err)

	token, err := a.IssueToken("uid-1", "a@example.com", time.Hour)
	require.NoError(t, err)

	id, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.Subject)
	assert.Equal(t, "a@example.com", id.Email)
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	a, err := NewJWTAuthenticator("s3cret")
	require.NoError(t, err)
	other, err := NewJWTAuthenticator("different")
	require.NoError(t, err)

	forged, err := other.IssueToken("uid-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	_, err = a.Authenticate(context.Background(), forged)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expired, err := a.IssueToken("uid-1", "a@example.com", time.Minute)
	require.NoError(t, err)
	a.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = a.Authenticate(context.Background(), expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	a.now = time.Now

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "uid-1"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = a.Authenticate(context.Background(), noExpiry)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = a.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = NewJWTAuthenticator("")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(r))

	r.AddCookie(&http.Cookie{Name: "accessToken", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", BearerToken(r))

	r.Header.Set("Authorization", "Bearer  from-header ")
	assert.Equal(t, "from-header", BearerToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "from-cookie", BearerToken(r))
}

func TestAuthorizer_RoleMatrix(t *testing.T) {
	a, err := NewAuthorizer()
	require.NoError(t, err)

	user := &domain.Principal{Email: "u@example.com", Role: domain.RoleUser}
	admin := &domain.Principal{Email: "a@example.com", Role: domain.RoleAdmin}
	anonymousRole := &domain.Principal{Email: "x@example.com"}

	cases := []struct {
		resource, action string
		user, admin      bool
	}{
		{ResourceCarts, ActionWrite, true, true},
		{ResourceOrders, ActionCreate, true, true},
		{ResourcePayments, ActionCreate, true, true},
		{ResourceCoupons, ActionRedeem, true, true},
		{ResourceProfile, ActionRead, true, true},
		{ResourceProducts, ActionWrite, false, true},
		{ResourceCoupons, ActionManage, false, true},
		{ResourceOrders, ActionManage, false, true},
		{ResourceUsers, ActionManage, false, true},
		{ResourceStats, ActionRead, false, true},
	}
	for _, tc := range cases {
		ok, err := a.Allowed(user, tc.resource, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.user, ok, "user %s:%s", tc.resource, tc.action)

		ok, err = a.Allowed(admin, tc.resource, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.admin, ok, "admin %s:%s", tc.resource, tc.action)

		ok, err = a.Allowed(anonymousRole, tc.resource, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.user, ok, "empty role behaves as user for %s:%s", tc.resource, tc.action)
	}

	ok, err := a.Allowed(nil, ResourceCarts, ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

type stubUsers struct {
	domain.UserRepository
	users map[string]domain.User
}

func (s stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func TestPrincipalResolver(t *testing.T) {
	r := NewPrincipalResolver(stubUsers{users: map[string]domain.User{
		"boss@example.com": {Email: "boss@example.com", Role: domain.RoleAdmin},
	}})
	ctx := context.Background()

	p, err := r.Resolve(ctx, &domain.Identity{Subject: "1", Email: " Boss@Example.com"})
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "boss@example.com", p.Email)

	p, err = r.Resolve(ctx, &domain.Identity{Subject: "2", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, p.Role)

	stored := PrincipalFrom(WithPrincipal(ctx, p))
	assert.Same(t, p, stored)
	assert.Nil(t, PrincipalFrom(ctx))
}
