package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	accounts := `
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE,
  balance INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'completed',
  amount INTEGER NOT NULL,
  invoice TEXT NOT NULL DEFAULT '',
  reference_id TEXT NOT NULL UNIQUE,
  auction_id TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(accounts).Error)
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func newAccount(t *testing.T, db *gorm.DB, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Balance:    balance,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func newTransaction(t *testing.T, db *gorm.DB, account *models.Account, txnType enums.TransactionType, amount int64, created time.Time) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		ID:          uuid.New(),
		AccountID:   account.ID,
		CustomerID:  account.CustomerID,
		Type:        txnType,
		Status:      enums.TransactionStatusCompleted,
		Amount:      amount,
		Invoice:     "ledger test entry",
		ReferenceID: uuid.New(),
		CreatedAt:   created,
	}
	require.NoError(t, db.Create(txn).Error)
	return txn
}

func TestRepositoryAccountRoundtrip(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	account := &models.Account{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Balance:    10000,
	}
	require.NoError(t, repo.CreateAccount(ctx, account))

	got, err := repo.GetAccountByCustomer(ctx, account.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, account.ID, got.ID)
	assert.Equal(t, int64(10000), got.Balance)

	require.NoError(t, repo.UpdateBalance(ctx, account.ID, 7500))
	got, err = repo.GetAccountByCustomer(ctx, account.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), got.Balance)
}

func TestRepositoryGetAccountByCustomerMissing(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	got, err := repo.GetAccountByCustomer(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryTransactionReferenceIDUnique(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	account := newAccount(t, db, 5000)
	referenceID := uuid.New()
	first := &models.Transaction{
		ID:          uuid.New(),
		AccountID:   account.ID,
		CustomerID:  account.CustomerID,
		Type:        enums.TransactionTypeDeposit,
		Status:      enums.TransactionStatusCompleted,
		Amount:      5000,
		Invoice:     "Initial coin grant",
		ReferenceID: referenceID,
	}
	require.NoError(t, repo.CreateTransaction(ctx, first))

	duplicate := &models.Transaction{
		ID:          uuid.New(),
		AccountID:   account.ID,
		CustomerID:  account.CustomerID,
		Type:        enums.TransactionTypeBid,
		Status:      enums.TransactionStatusCompleted,
		Amount:      100,
		Invoice:     "ledger test entry",
		ReferenceID: referenceID,
	}
	assert.Error(t, repo.CreateTransaction(ctx, duplicate), "reference id must be unique")
}

func TestRepositoryListTransactionsFilterAndOrder(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	account := newAccount(t, db, 5000)
	base := time.Now().UTC().Truncate(time.Second)
	newTransaction(t, db, account, enums.TransactionTypeDeposit, 5000, base.Add(-3*time.Hour))
	newTransaction(t, db, account, enums.TransactionTypeBid, -1000, base.Add(-2*time.Hour))
	latest := newTransaction(t, db, account, enums.TransactionTypeBid, -500, base.Add(-time.Hour))

	rows, err := repo.ListTransactions(ctx, account.CustomerID, nil, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, latest.ID, rows[0].ID, "newest transaction first")

	bidType := enums.TransactionTypeBid
	rows, err = repo.ListTransactions(ctx, account.CustomerID, &bidType, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, enums.TransactionTypeBid, row.Type)
	}
}

func TestRepositoryListTransactionsCursor(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	account := newAccount(t, db, 5000)
	base := time.Now().UTC().Truncate(time.Second)
	oldest := newTransaction(t, db, account, enums.TransactionTypeDeposit, 5000, base.Add(-3*time.Hour))
	middle := newTransaction(t, db, account, enums.TransactionTypeBid, -1000, base.Add(-2*time.Hour))
	newTransaction(t, db, account, enums.TransactionTypeBid, -500, base.Add(-time.Hour))

	cursor := &pagination.Cursor{CreatedAt: middle.CreatedAt, ID: middle.ID}
	rows, err := repo.ListTransactions(ctx, account.CustomerID, nil, 10, cursor)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}
