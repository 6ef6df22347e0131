package service

import (
	"context"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
)

// LowStockThreshold is the stock below which a product counts as low
const LowStockThreshold = 10

type DashboardService interface {
	GetOverview(ctx context.Context) (*model.InventoryOverview, error)
	GetDailySales(ctx context.Context, days int) ([]model.DailySales, error)
}

type dashboardService struct {
	store repository.Store
	now   func() time.Time
}

func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store, now: time.Now}
}

func (s *dashboardService) GetOverview(ctx context.Context) (*model.InventoryOverview, error) {
	return s.store.Products().Overview(ctx, LowStockThreshold)
}

func (s *dashboardService) GetDailySales(ctx context.Context, days int) ([]model.DailySales, error) {
	if days < 1 || days > 366 {
		return nil, apperr.Validation("days", "must be between 1 and 366")
	}
	since := s.now().AddDate(0, 0, -days)
	return s.store.Transactions().DailySales(ctx, since)
}
