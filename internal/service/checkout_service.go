package service

import (
	"context"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

type TransactionPage struct {
	Transactions []model.TransactionView `json:"transactions"`
	TotalItems   int64                   `json:"totalItems"`
	TotalPages   int                     `json:"totalPages"`
	CurrentPage  int                     `json:"currentPage"`
}

// CheckoutService turns checkout requests into ledger entries and reads them back
type CheckoutService interface {
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.TransactionView, error)
	GetTransaction(ctx context.Context, id uint) (*model.TransactionView, error)
	ListUserTransactions(ctx context.Context, userID uint, page, limit int) (*TransactionPage, error)
}

type checkoutService struct {
	store repository.Store
}

func NewCheckoutService(store repository.Store) CheckoutService {
	return &checkoutService{store: store}
}

// Checkout validates stock, prices every line from the stored product price,
// decrements stock and writes the transaction, all in one unit of work.
// Any failing line aborts the whole checkout with nothing persisted.
//
// Lines are applied in the order given. Repeated products are not summed:
// each line sees the stock left by the lines before it.
func (s *checkoutService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.TransactionView, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("items", "must contain at least one item")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var created *model.Transaction
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, req.UserID); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.Reference("user", req.UserID)
			}
			return err
		}

		locked, err := tx.Products().LockByIDs(ctx, distinctProductIDs(req.Items))
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.TransactionItem, 0, len(req.Items))

		for _, line := range req.Items {
			// 1. Product harus ada dan belum dihapus
			product, ok := locked[line.ProductID]
			if !ok {
				return apperr.NotFound("product", line.ProductID)
			}

			// 2. Validasi stok terhadap sisa stok saat ini
			if product.Stock < line.Quantity {
				return &apperr.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   line.Quantity,
				}
			}

			// 3. Harga dari DB, bukan dari request
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))

			// 4. Snapshot harga saat transaksi
			items = append(items, model.TransactionItem{
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				PriceAtTime: product.Price,
			})

			// 5. Kurangi stok
			if err := tx.Products().DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}
			product.Stock -= line.Quantity
		}

		// 6. Header dan items ditulis sekaligus
		created = &model.Transaction{
			UserID: req.UserID,
			Total:  total,
			Items:  items,
		}
		return tx.Transactions().Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransaction(ctx, created.ID)
}

func (s *checkoutService) GetTransaction(ctx context.Context, id uint) (*model.TransactionView, error) {
	transaction, err := s.store.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := transaction.ToView()
	return &view, nil
}

func (s *checkoutService) ListUserTransactions(ctx context.Context, userID uint, page, limit int) (*TransactionPage, error) {
	offset, limit, err := pageBounds(page, limit)
	if err != nil {
		return nil, err
	}

	transactions, total, err := s.store.Transactions().ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	views := make([]model.TransactionView, 0, len(transactions))
	for i := range transactions {
		views = append(views, transactions[i].ToView())
	}

	return &TransactionPage{
		Transactions: views,
		TotalItems:   total,
		TotalPages:   totalPages(total, limit),
		CurrentPage:  page,
	}, nil
}

func distinctProductIDs(items []model.CheckoutItem) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
