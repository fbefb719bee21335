package middleware

import (
	"context"
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/domain"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

type noUsers struct {
	domain.UserRepository
	admins map[string]bool
}

func (n noUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if n.admins[email] {
		return &domain.User{Email: email, Role: domain.RoleAdmin}, nil
	}
	return nil, domain.ErrNotFound
}

func newTestAuth(t *testing.T) (*Auth, *auth.JWTAuthenticator) {
	t.Helper()
	jwtAuth, err := auth.NewJWTAuthenticator("test-secret")
	require.NoError(t, err)
	authorizer, err := auth.NewAuthorizer()
	require.NoError(t, err)
	resolver := auth.NewPrincipalResolver(noUsers{admins: map[string]bool{"admin@example.com": true}})
	return NewAuth(jwtAuth, resolver, authorizer), jwtAuth
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAuth_Protect(t *testing.T) {
	a, issuer := newTestAuth(t)
	userToken, err := issuer.IssueToken("u1", "user@example.com", time.Hour)
	require.NoError(t, err)
	adminToken, err := issuer.IssueToken("a1", "admin@example.com", time.Hour)
	require.NoError(t, err)

	var seen *domain.Principal
	h := a.Protect(auth.ResourceStats, auth.ActionRead, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		token  string
		status int
		kind   string
	}{
		{"missing token", "", http.StatusUnauthorized, "Unauthorized"},
		{"garbage token", "not.a.jwt", http.StatusUnauthorized, "Unauthorized"},
		{"user lacks role", userToken, http.StatusForbidden, "Forbidden"},
		{"admin allowed", adminToken, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.kind != "" {
				assert.Equal(t, tc.kind, errorKind(t, rec))
			}
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "admin@example.com", seen.Email)
	assert.True(t, seen.IsAdmin())
}

func TestAuth_RequireWithoutAuthenticate(t *testing.T) {
	a, _ := newTestAuth(t)
	rec := httptest.NewRecorder()
	a.Require(auth.ResourceCarts, auth.ActionRead)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestLogger_PropagatesEmail(t *testing.T) {
	a, issuer := newTestAuth(t)
	token, err := issuer.IssueToken("u1", "user@example.com", time.Hour)
	require.NoError(t, err)

	var meta *requestMeta
	h := RequestLogger(a.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta = metaFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)
	require.NotNil(t, meta)
	assert.Equal(t, "user@example.com", meta.email)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(context.Background(), RateLimitConfig{
		PerSecond:   rate.Limit(0.5),
		Burst:       2,
		ExemptPaths: []string{"/health"},
	})
	defer rl.Shutdown()
	h := rl.Middleware()(okHandler)

	hit := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, hit("/products", "1.1.1.1").Code)
	assert.Equal(t, http.StatusOK, hit("/products", "1.1.1.1").Code)
	limited := hit("/products", "1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "RateLimited", errorKind(t, limited))
	retry, err := strconv.Atoi(limited.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 2, retry, 1)

	assert.Equal(t, http.StatusOK, hit("/health", "1.1.1.1").Code)
	assert.Equal(t, http.StatusOK, hit("/products", "2.2.2.2").Code)
}

func TestRateLimiter_RejectionDoesNotSpendTokens(t *testing.T) {
	rl := NewRateLimiter(context.Background(), RateLimitConfig{PerSecond: 1, Burst: 1})
	defer rl.Shutdown()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("k")
	assert.True(t, ok)
	for range 3 {
		ok, wait := rl.Allow("k")
		assert.False(t, ok)
		assert.Equal(t, time.Second, wait)
	}

	now = now.Add(time.Second)
	ok, _ = rl.Allow("k")
	assert.True(t, ok, "a refused reservation is handed back")
}

func TestRateLimiter_SweepForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(context.Background(), RateLimitConfig{PerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	defer rl.Shutdown()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.Allow("old")
	now = now.Add(2 * time.Minute)
	rl.Allow("fresh")

	assert.Equal(t, 1, rl.sweep())
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Contains(t, rl.buckets, "fresh")
	assert.NotContains(t, rl.buckets, "old")
}

func TestCORS(t *testing.T) {
	h := NewCORSMiddleware("https://shop.example.com, https://admin.example.com")(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	NewCORSMiddleware("*")(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.1")
	assert.Equal(t, "198.51.100.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5 , 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}
