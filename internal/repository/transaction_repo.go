package repository

import (
	"context"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository is the append-only ledger. It has no Update or Delete:
// a transaction is immutable once written.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Transaction, int64, error)
	DailySales(ctx context.Context, since time.Time) ([]model.DailySales, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create writes the header together with all of its items
func (r *transactionRepo) Create(ctx context.Context, transaction *model.Transaction) error {
	err := r.db.WithContext(ctx).Create(transaction).Error
	return errors.Wrap(err, "create transaction")
}

// withDetails joins the owner and every item's product. Products are loaded
// regardless of soft-deletion so history stays readable.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("transaction_items.id ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Category")
}

func (r *transactionRepo) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).Scopes(withDetails).First(&transaction, "transactions.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction", id)
		}
		return nil, errors.Wrap(err, "find transaction")
	}
	return &transaction, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Transaction, int64, error) {
	var transactions []model.Transaction
	var total int64

	base := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("transactions.user_id = ?", userID).
		Session(&gorm.Session{})

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count transactions")
	}

	err := base.Scopes(withDetails).
		Order("transactions.created_at DESC").
		Order("transactions.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list transactions")
	}

	return transactions, total, nil
}

// DailySales aggregates the ledger per calendar day since the given time
func (r *transactionRepo) DailySales(ctx context.Context, since time.Time) ([]model.DailySales, error) {
	results := []model.DailySales{}

	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COUNT(id) as transactions,
			COALESCE(SUM(total), 0) as revenue
		`).
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, errors.Wrap(err, "daily sales")
	}
	defer rows.Close()

	for rows.Next() {
		var data model.DailySales
		var revenue decimal.Decimal
		if err := rows.Scan(&data.Date, &data.Transactions, &revenue); err != nil {
			return nil, errors.Wrap(err, "scan daily sales")
		}
		// DATE() comes back as a timestamp on some drivers
		if len(data.Date) > 10 {
			data.Date = data.Date[:10]
		}
		data.Revenue = revenue
		results = append(results, data)
	}

	return results, errors.Wrap(rows.Err(), "daily sales rows")
}
