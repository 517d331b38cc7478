package bidding

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/internal/ledger"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// fakeLedgerRepository backs a real ledger.Service so bid tests exercise the
// actual debit rules.
type fakeLedgerRepository struct {
	accounts     map[uuid.UUID]*models.Account
	transactions []models.Transaction
}

func newFakeLedgerRepository() *fakeLedgerRepository {
	return &fakeLedgerRepository{accounts: make(map[uuid.UUID]*models.Account)}
}

func (f *fakeLedgerRepository) seedAccount(customerID uuid.UUID, balance int64) *models.Account {
	account := &models.Account{ID: uuid.New(), CustomerID: customerID, Balance: balance}
	f.accounts[customerID] = account
	return account
}

func (f *fakeLedgerRepository) balance(customerID uuid.UUID) int64 {
	if account, ok := f.accounts[customerID]; ok {
		return account.Balance
	}
	return -1
}

func (f *fakeLedgerRepository) WithTx(tx *gorm.DB) ledger.Repository { return f }

func (f *fakeLedgerRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.CustomerID] = account
	return nil
}

func (f *fakeLedgerRepository) GetAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Account, error) {
	return f.accounts[customerID], nil
}

func (f *fakeLedgerRepository) GetAccountByCustomerForUpdate(ctx context.Context, customerID uuid.UUID) (*models.Account, error) {
	return f.accounts[customerID], nil
}

func (f *fakeLedgerRepository) UpdateBalance(ctx context.Context, accountID uuid.UUID, balance int64) error {
	for _, account := range f.accounts {
		if account.ID == accountID {
			account.Balance = balance
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeLedgerRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	f.transactions = append(f.transactions, *txn)
	return nil
}

func (f *fakeLedgerRepository) ListTransactions(ctx context.Context, customerID uuid.UUID, txnType *enums.TransactionType, limit int, cursor *pagination.Cursor) ([]models.Transaction, error) {
	var rows []models.Transaction
	for _, txn := range f.transactions {
		if txn.CustomerID == customerID {
			rows = append(rows, txn)
		}
	}
	return rows, nil
}
