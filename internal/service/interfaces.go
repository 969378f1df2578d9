package service

import (
	"context"

	"github.com/dripsave/savings-service/internal/integrations/aggregator"
	"github.com/dripsave/savings-service/internal/models"
)

// AccountStore is the persistence contract the service depends on. UpdateAccount
// must apply the mutation closure atomically per account: concurrent updates to
// the same account are serialized, and a closure error leaves the record
// unchanged.
type AccountStore interface {
	CreateAccount(ctx context.Context, acct *models.Account) error
	FindAccount(ctx context.Context, username string) (*models.Account, error)
	UpdateAccount(ctx context.Context, username string, mutate func(*models.Account) error) (*models.Account, error)
}

// BankAggregator is the external bank-aggregation client contract.
type BankAggregator interface {
	Authenticate(ctx context.Context, creds aggregator.Credentials) (*aggregator.AuthResult, error)
	ExchangeToken(ctx context.Context, publicToken, accountID string) (string, error)
}
