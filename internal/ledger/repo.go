package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Repository manages persistence for coin accounts and their transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Account, error)
	// GetAccountByCustomerForUpdate takes a row lock; callers must hold a transaction.
	GetAccountByCustomerForUpdate(ctx context.Context, customerID uuid.UUID) (*models.Account, error)
	UpdateBalance(ctx context.Context, accountID uuid.UUID, balance int64) error
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactions(ctx context.Context, customerID uuid.UUID, txnType *enums.TransactionType, limit int, cursor *pagination.Cursor) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateAccount(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) GetAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetAccountByCustomerForUpdate(ctx context.Context, customerID uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) UpdateBalance(ctx context.Context, accountID uuid.UUID, balance int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", balance).Error
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, customerID uuid.UUID, txnType *enums.TransactionType, limit int, cursor *pagination.Cursor) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID)
	if txnType != nil {
		query = query.Where("type = ?", *txnType)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Transaction
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
