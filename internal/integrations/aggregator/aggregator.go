// Package aggregator implements the client for the external bank-aggregation
// service used by the account linking handshake. The handshake has two
// phases: Authenticate enumerates the user's bank accounts and yields a
// short-lived public token; ExchangeToken trades that token plus a chosen
// account id for a durable bank-account token.
package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dripsave/savings-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Client handles integration with the bank aggregation service
type Client struct {
	authURL     string
	exchangeURL string
	publicKey   string
	clientID    string
	secret      string
	client      *http.Client
	log         *logrus.Logger
}

// NewClient initializes a new aggregator client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		authURL:     cfg.AggregatorAuthURL,
		exchangeURL: cfg.AggregatorExchangeURL,
		publicKey:   cfg.AggregatorPublicKey,
		clientID:    cfg.AggregatorClientID,
		secret:      cfg.AggregatorSecret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// APIError is a non-200 response from the aggregator. The raw response body
// is kept intact so callers can relay it verbatim.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aggregator returned status %d", e.StatusCode)
}

// BankAccount is one sub-account discovered during authentication.
type BankAccount struct {
	Balance float64 `json:"balance"`
	ID      string  `json:"id"`
	Name    string  `json:"name"`
}

// AuthResult is the outcome of a successful Authenticate call.
type AuthResult struct {
	Accounts    []BankAccount `json:"accounts"`
	PublicToken string        `json:"token"`
}

// Credentials are the institution credentials supplied by the end user.
type Credentials struct {
	Username    string
	Password    string
	Institution string
}

type authRequest struct {
	PublicKey       string `json:"public_key"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	InstitutionType string `json:"institution_type"`
	Product         string `json:"product"`
	IncludeAccounts bool   `json:"include_accounts"`
}

type authResponse struct {
	Accounts []struct {
		ID      string `json:"_id"`
		Balance struct {
			Current float64 `json:"current"`
		} `json:"balance"`
		Meta struct {
			Name string `json:"name"`
		} `json:"meta"`
	} `json:"accounts"`
	PublicToken string `json:"public_token"`
}

type exchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
	AccountID   string `json:"account_id"`
}

type exchangeResponse struct {
	BankAccountToken string `json:"stripe_bank_account_token"`
}

// post sends a JSON request to the aggregator and returns the response body.
// Non-200 responses become an *APIError carrying the raw payload; no retry
// is attempted here, retry policy belongs to the caller.
func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Debugf("aggregator error response: %s", string(raw))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: raw}
	}
	return raw, nil
}

// Authenticate performs phase 1 of the handshake: it authenticates the
// supplied institution credentials and enumerates the user's bank accounts.
// Nothing is persisted; the returned public token round-trips through the
// caller into ExchangeToken.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) (*AuthResult, error) {
	payload := authRequest{
		PublicKey:       c.publicKey,
		Username:        creds.Username,
		Password:        creds.Password,
		InstitutionType: creds.Institution,
		Product:         "auth",
		IncludeAccounts: true,
	}

	raw, err := c.post(ctx, c.authURL, payload)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse authenticate response: %w", err)
	}

	result := &AuthResult{PublicToken: resp.PublicToken}
	for _, acct := range resp.Accounts {
		result.Accounts = append(result.Accounts, BankAccount{
			Balance: acct.Balance.Current,
			ID:      acct.ID,
			Name:    acct.Meta.Name,
		})
	}

	c.log.Infof("Aggregator authenticated institution %s, %d accounts discovered", creds.Institution, len(result.Accounts))
	return result, nil
}

// ExchangeToken performs phase 2 of the handshake: it exchanges the public
// token and chosen account id for a durable bank-account token.
func (c *Client) ExchangeToken(ctx context.Context, publicToken, accountID string) (string, error) {
	payload := exchangeRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		PublicToken: publicToken,
		AccountID:   accountID,
	}

	raw, err := c.post(ctx, c.exchangeURL, payload)
	if err != nil {
		return "", err
	}

	var resp exchangeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to parse exchange response: %w", err)
	}
	if resp.BankAccountToken == "" {
		return "", fmt.Errorf("exchange response missing bank account token")
	}

	c.log.Infof("Aggregator exchanged public token for account %s", accountID)
	return resp.BankAccountToken, nil
}
