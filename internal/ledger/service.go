package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Service owns every coin balance mutation. A balance never changes without an
// accompanying Transaction row appended in the same database transaction.
type Service interface {
	OpenAccount(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, initialGrant int64) (*models.Account, error)
	GetBalance(ctx context.Context, customerID uuid.UUID) (int64, error)
	Debit(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.Transaction, error)
	Credit(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, customerID uuid.UUID, filter TransactionFilter) ([]models.Transaction, string, error)
}

// EntryInput describes a single coin movement on a customer's account.
// Invoice is the human-readable description stamped on the transaction row.
type EntryInput struct {
	CustomerID  uuid.UUID
	Amount      int64
	Type        enums.TransactionType
	Invoice     string
	ReferenceID uuid.UUID
	AuctionID   *uuid.UUID
}

// TransactionFilter narrows and pages the transaction history listing.
type TransactionFilter struct {
	Type   *enums.TransactionType
	Limit  int
	Cursor string
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) OpenAccount(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, initialGrant int64) (*models.Account, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction required")
	}
	if customerID == uuid.Nil {
		return nil, fmt.Errorf("customer id is required")
	}
	if initialGrant < 0 {
		return nil, fmt.Errorf("initial grant must be non-negative")
	}

	repo := s.repo.WithTx(tx)
	account := &models.Account{
		CustomerID: customerID,
		Balance:    initialGrant,
	}
	if err := repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	if initialGrant > 0 {
		grant := &models.Transaction{
			AccountID:   account.ID,
			CustomerID:  customerID,
			Type:        enums.TransactionTypeDeposit,
			Status:      enums.TransactionStatusCompleted,
			Amount:      initialGrant,
			Invoice:     "Initial coin grant",
			ReferenceID: uuid.New(),
		}
		if err := repo.CreateTransaction(ctx, grant); err != nil {
			return nil, err
		}
	}
	return account, nil
}

func (s *service) GetBalance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if customerID == uuid.Nil {
		return 0, fmt.Errorf("customer id is required")
	}
	account, err := s.repo.GetAccountByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return account.Balance, nil
}

func (s *service) Debit(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.Transaction, error) {
	if err := validateEntry(tx, input); err != nil {
		return nil, err
	}

	repo := s.repo.WithTx(tx)
	account, err := repo.GetAccountByCustomerForUpdate(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	if account.Balance < input.Amount {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientFunds, "balance does not cover the debit").
			WithDetails(map[string]any{"balance": account.Balance, "amount": input.Amount})
	}

	if err := repo.UpdateBalance(ctx, account.ID, account.Balance-input.Amount); err != nil {
		return nil, err
	}
	return s.appendTransaction(ctx, repo, account, input)
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.Transaction, error) {
	if err := validateEntry(tx, input); err != nil {
		return nil, err
	}

	repo := s.repo.WithTx(tx)
	account, err := repo.GetAccountByCustomerForUpdate(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}

	if err := repo.UpdateBalance(ctx, account.ID, account.Balance+input.Amount); err != nil {
		return nil, err
	}
	return s.appendTransaction(ctx, repo, account, input)
}

func (s *service) ListTransactions(ctx context.Context, customerID uuid.UUID, filter TransactionFilter) ([]models.Transaction, string, error) {
	if customerID == uuid.Nil {
		return nil, "", fmt.Errorf("customer id is required")
	}
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}

	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	rows, err := s.repo.ListTransactions(ctx, customerID, filter.Type, limit+1, cursor)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) appendTransaction(ctx context.Context, repo Repository, account *models.Account, input EntryInput) (*models.Transaction, error) {
	txn := &models.Transaction{
		AccountID:   account.ID,
		CustomerID:  input.CustomerID,
		Type:        input.Type,
		Status:      enums.TransactionStatusCompleted,
		Amount:      input.Amount,
		Invoice:     input.Invoice,
		ReferenceID: input.ReferenceID,
		AuctionID:   input.AuctionID,
	}
	if txn.ReferenceID == uuid.Nil {
		txn.ReferenceID = uuid.New()
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func validateEntry(tx *gorm.DB, input EntryInput) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	if input.CustomerID == uuid.Nil {
		return fmt.Errorf("customer id is required")
	}
	if input.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if !input.Type.IsValid() {
		return fmt.Errorf("invalid transaction type %q", input.Type)
	}
	return nil
}
