package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func testBackends(url string) *stripe.Backends {
	cfg := &stripe.BackendConfig{
		URL:               stripe.String(url),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	return &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		form = map[string]string{
			"amount":   r.PostForm.Get("amount"),
			"currency": r.PostForm.Get("currency"),
			"method":   r.PostForm.Get("payment_method_types[0]"),
			"email":    r.PostForm.Get("metadata[email]"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":98000,"currency":"usd","client_secret":"pi_123_secret_abc"}`))
	}))
	defer srv.Close()

	gw, err := NewStripeGateway("sk_test_123", testBackends(srv.URL))
	require.NoError(t, err)

	intent, err := gw.CreateIntent(context.Background(), 98000, "usd", map[string]string{"email": "a@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, int64(98000), intent.Amount)
	assert.Equal(t, map[string]string{"amount": "98000", "currency": "usd", "method": "card", "email": "a@example.com"}, form)
}

func TestStripeGateway_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"amount_too_small","message":"Amount must be at least $0.50 usd"}}`))
	}))
	defer srv.Close()

	gw, err := NewStripeGateway("sk_test_123", testBackends(srv.URL))
	require.NoError(t, err)

	_, err = gw.CreateIntent(context.Background(), 10, "usd", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount_too_small")
}

func TestNewStripeGateway_RequiresKey(t *testing.T) {
	_, err := NewStripeGateway("", nil)
	assert.Error(t, err)
}
