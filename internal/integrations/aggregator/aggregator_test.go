package aggregator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dripsave/savings-service/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		AggregatorAuthURL:     srv.URL + "/authenticate",
		AggregatorExchangeURL: srv.URL + "/exchange_token",
		AggregatorPublicKey:   "pub-key",
		AggregatorClientID:    "client-id",
		AggregatorSecret:      "client-secret",
	}
	return NewClient(cfg, log)
}

func TestAuthenticate(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/authenticate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"accounts": [
				{"_id": "ext-1", "balance": {"current": 1203.42}, "meta": {"name": "Checking"}},
				{"_id": "ext-2", "balance": {"current": 50.00}, "meta": {"name": "Savings"}}
			],
			"public_token": "public-token-abc"
		}`))
	}))

	result, err := client.Authenticate(context.Background(), Credentials{
		Username:    "plaid_test",
		Password:    "plaid_good",
		Institution: "wells",
	})
	require.NoError(t, err)

	assert.Equal(t, "public-token-abc", result.PublicToken)
	require.Len(t, result.Accounts, 2)
	assert.Equal(t, BankAccount{Balance: 1203.42, ID: "ext-1", Name: "Checking"}, result.Accounts[0])
	assert.Equal(t, "Savings", result.Accounts[1].Name)

	// the configured application key and credentials go out with the request
	assert.Equal(t, "pub-key", received["public_key"])
	assert.Equal(t, "plaid_test", received["username"])
	assert.Equal(t, "wells", received["institution_type"])
	assert.Equal(t, "auth", received["product"])
	assert.Equal(t, true, received["include_accounts"])
}

func TestAuthenticateUpstreamError(t *testing.T) {
	upstream := `{"code": 1200, "message": "invalid credentials", "resolve": "check the username and password"}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(upstream))
	}))

	_, err := client.Authenticate(context.Background(), Credentials{Username: "u", Password: "p", Institution: "wells"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.JSONEq(t, upstream, string(apiErr.Body), "upstream payload must be preserved verbatim")
}

func TestExchangeToken(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/exchange_token", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stripe_bank_account_token": "btok_123"}`))
	}))

	token, err := client.ExchangeToken(context.Background(), "public-token-abc", "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "btok_123", token)

	assert.Equal(t, "client-id", received["client_id"])
	assert.Equal(t, "client-secret", received["secret"])
	assert.Equal(t, "public-token-abc", received["public_token"])
	assert.Equal(t, "ext-1", received["account_id"])
}

func TestExchangeTokenUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "stale public token"}`))
	}))

	_, err := client.ExchangeToken(context.Background(), "stale", "ext-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, string(apiErr.Body), "stale public token")
}

func TestExchangeTokenMissingToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.ExchangeToken(context.Background(), "public-token-abc", "ext-1")
	assert.Error(t, err)
}

func TestRequestContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Authenticate(ctx, Credentials{Username: "u", Password: "p", Institution: "wells"})
	assert.Error(t, err)
}
