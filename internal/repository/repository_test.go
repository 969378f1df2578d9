package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/dripsave/savings-service/internal/models"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database named by TEST_DB_CONN. Tests in this
// file need a live Postgres with the migrations applied and are skipped
// otherwise.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn := os.Getenv("TEST_DB_CONN")
	if conn == "" {
		t.Skip("TEST_DB_CONN not set, skipping repository tests")
	}
	db, err := sql.Open("postgres", conn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM savings.accounts WHERE username LIKE 'repotest-%'`)
		db.Close()
	})
	return db
}

func testAccount(t *testing.T, repo *Repository) *models.Account {
	t.Helper()
	acct := &models.Account{
		Username:     fmt.Sprintf("repotest-%s", t.Name()),
		PasswordHash: "x",
	}
	require.NoError(t, repo.CreateAccount(context.Background(), acct))
	return acct
}

func TestCreateAccountDuplicate(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	acct := testAccount(t, repo)

	err := repo.CreateAccount(context.Background(), &models.Account{
		Username:     acct.Username,
		PasswordHash: "y",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)
}

func TestFindAccount(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	acct := testAccount(t, repo)

	found, err := repo.FindAccount(context.Background(), acct.Username)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, found.ID)
	assert.Equal(t, int64(0), found.SavingsCents)
	assert.False(t, found.Active)

	_, err = repo.FindAccount(context.Background(), "repotest-nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateAccount(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	acct := testAccount(t, repo)
	ctx := context.Background()

	updated, err := repo.UpdateAccount(ctx, acct.Username, func(a *models.Account) error {
		a.SavingsCents += 1500
		a.Active = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.SavingsCents)
	assert.True(t, updated.Active)

	found, err := repo.FindAccount(ctx, acct.Username)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), found.SavingsCents)
}

func TestUpdateAccountRollsBackOnClosureError(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	acct := testAccount(t, repo)
	ctx := context.Background()

	_, err := repo.UpdateAccount(ctx, acct.Username, func(a *models.Account) error {
		a.SavingsCents += 9999
		return models.ErrInsufficientFunds
	})
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	found, err := repo.FindAccount(ctx, acct.Username)
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.SavingsCents, "failed closure must leave the row unchanged")
}
