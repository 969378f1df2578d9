package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dripsave/savings-service/internal/config"
	"github.com/dripsave/savings-service/internal/integrations/aggregator"
	"github.com/dripsave/savings-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service handles business logic
type Service struct {
	store      AccountStore
	aggregator BankAggregator
	log        *logrus.Logger
	config     *config.Config
}

// NewService initializes a new service
func NewService(store AccountStore, agg BankAggregator, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, aggregator: agg, log: log, config: cfg}
}

// Register creates a new account with a hashed password and returns an auth
// token for it. New accounts start with zero savings, paused, no schedule.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	acct := &models.Account{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateAccount(ctx, acct); err != nil {
		return "", err
	}

	s.log.Infof("Account registered: %s", acct.Username)
	return s.issueToken(acct.Username)
}

// Login authenticates an account and returns a JWT token
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	acct, err := s.store.FindAccount(ctx, username)
	if err != nil {
		return "", models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	s.log.Infof("Account logged in: %s", acct.Username)
	return s.issueToken(acct.Username)
}

func (s *Service) issueToken(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// GetAccount retrieves the account for the authenticated user
func (s *Service) GetAccount(ctx context.Context, username string) (*models.Account, error) {
	return s.store.FindAccount(ctx, username)
}

// Deposit adds amount (minor units) to the account's savings. Amount
// validation happens at the edge; a valid deposit never fails.
func (s *Service) Deposit(ctx context.Context, username string, amount int64) (*models.Account, error) {
	acct, err := s.store.UpdateAccount(ctx, username, func(a *models.Account) error {
		a.SavingsCents += amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Deposit of %d for %s, balance now %d", amount, username, acct.SavingsCents)
	return acct, nil
}

// Withdraw removes amount (minor units) from the account's savings. The
// balance check runs inside the store's mutation closure so two concurrent
// withdrawals can never both pass it against a stale balance.
func (s *Service) Withdraw(ctx context.Context, username string, amount int64) (*models.Account, error) {
	acct, err := s.store.UpdateAccount(ctx, username, func(a *models.Account) error {
		if amount > a.SavingsCents {
			return models.ErrInsufficientFunds
		}
		a.SavingsCents -= amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Withdrawal of %d for %s, balance now %d", amount, username, acct.SavingsCents)
	return acct, nil
}

// Restart enables scheduled saving. Restarting an already-active account is
// rejected rather than silently succeeding.
func (s *Service) Restart(ctx context.Context, username string) error {
	_, err := s.store.UpdateAccount(ctx, username, func(a *models.Account) error {
		if a.Active {
			return models.ErrAlreadyActive
		}
		a.Active = true
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Infof("Account restarted: %s", username)
	return nil
}

// Pause disables scheduled saving. Pausing an already-paused account is
// rejected rather than silently succeeding.
func (s *Service) Pause(ctx context.Context, username string) error {
	_, err := s.store.UpdateAccount(ctx, username, func(a *models.Account) error {
		if !a.Active {
			return models.ErrAlreadyPaused
		}
		a.Active = false
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Infof("Account paused: %s", username)
	return nil
}

// SetSchedule overwrites the scheduled deposit amount and frequency. It can
// be called in either activity state and does not change the active flag.
// The schedule is stored only; nothing executes it.
func (s *Service) SetSchedule(ctx context.Context, username string, amount int64, frequency string) error {
	_, err := s.store.UpdateAccount(ctx, username, func(a *models.Account) error {
		a.ScheduledDepositCents = amount
		a.ScheduledFrequency = frequency
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Infof("Schedule set for %s: %d per %s", username, amount, frequency)
	return nil
}

// LinkBank performs phase 1 of the bank-link handshake. The discovered
// accounts and public token go back to the caller; nothing is persisted
// until ConfirmLink.
func (s *Service) LinkBank(ctx context.Context, creds aggregator.Credentials) (*aggregator.AuthResult, error) {
	return s.aggregator.Authenticate(ctx, creds)
}

// ConfirmLink performs phase 2 of the bank-link handshake: it exchanges the
// public token for a durable bank token and persists it on the account. On
// aggregator failure the account is left unmodified, so a failed retry never
// clobbers a previously linked token.
func (s *Service) ConfirmLink(ctx context.Context, username, publicToken, accountID string) error {
	bankToken, err := s.aggregator.ExchangeToken(ctx, publicToken, accountID)
	if err != nil {
		return err
	}

	_, err = s.store.UpdateAccount(ctx, username, func(a *models.Account) error {
		a.LinkedBankToken = bankToken
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Infof("Bank account linked for %s", username)
	return nil
}
