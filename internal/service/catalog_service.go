package service

import (
	"context"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// ListProductsParams mirrors the listing query string
type ListProductsParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

type ProductPage struct {
	Products    []model.ProductView `json:"products"`
	TotalItems  int64               `json:"totalItems"`
	TotalPages  int                 `json:"totalPages"`
	CurrentPage int                 `json:"currentPage"`
}

type StatisticsReport struct {
	Overview   *model.ProductStatistics   `json:"overview"`
	ByCategory []model.CategoryStatistics `json:"byCategory"`
}

type CatalogService interface {
	ListProducts(ctx context.Context, params ListProductsParams) (*ProductPage, error)
	GetProduct(ctx context.Context, id uint) (*model.ProductView, error)
	SearchProducts(ctx context.Context, name string, maxPrice *decimal.Decimal) ([]model.ProductView, error)
	CreateProduct(ctx context.Context, in *model.CreateProductInput) (*model.ProductView, error)
	UpdateProduct(ctx context.Context, id uint, in *model.UpdateProductInput) (*model.ProductView, error)
	DeleteProduct(ctx context.Context, id uint) (*model.ProductView, error)
	GetStatistics(ctx context.Context, categoryID *uint) (*StatisticsReport, error)
}

type catalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) ListProducts(ctx context.Context, params ListProductsParams) (*ProductPage, error) {
	offset, limit, err := pageBounds(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	sortBy, err := repository.ParseSortField(params.SortBy)
	if err != nil {
		return nil, err
	}
	sortOrder, err := repository.ParseSortOrder(params.SortOrder)
	if err != nil {
		return nil, err
	}

	products, total, err := s.store.Products().List(ctx, repository.ProductQuery{
		Filter:    repository.ProductFilter{Search: params.Search},
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:    toProductViews(products),
		TotalItems:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: params.Page,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.ProductView, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := product.ToView()
	return &view, nil
}

// SearchProducts AND-combines an optional name substring and an optional price ceiling
func (s *catalogService) SearchProducts(ctx context.Context, name string, maxPrice *decimal.Decimal) ([]model.ProductView, error) {
	if maxPrice != nil && maxPrice.IsNegative() {
		return nil, apperr.Validation("max_price", "must not be negative")
	}

	products, _, err := s.store.Products().List(ctx, repository.ProductQuery{
		Filter:    repository.ProductFilter{Search: name, MaxPrice: maxPrice},
		SortBy:    repository.SortByName,
		SortOrder: repository.SortAsc,
	})
	if err != nil {
		return nil, err
	}
	return toProductViews(products), nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in *model.CreateProductInput) (*model.ProductView, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if !in.Price.IsPositive() {
		return nil, apperr.Validation("price", "must be greater than 0")
	}

	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, in *model.UpdateProductInput) (*model.ProductView, error) {
	// Cek existence first
	current, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IsEmpty() {
		view := current.ToView()
		return &view, nil
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.Price != nil && !in.Price.IsPositive() {
		return nil, apperr.Validation("price", "must be greater than 0")
	}

	product, err := s.store.Products().Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	view := product.ToView()
	return &view, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) (*model.ProductView, error) {
	// Cek existence first
	if _, err := s.store.Products().FindByID(ctx, id); err != nil {
		return nil, err
	}

	product, err := s.store.Products().SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	view := product.ToView()
	return &view, nil
}

func (s *catalogService) GetStatistics(ctx context.Context, categoryID *uint) (*StatisticsReport, error) {
	overview, err := s.store.Products().Statistics(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.store.Products().StatisticsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return &StatisticsReport{Overview: overview, ByCategory: byCategory}, nil
}

func toProductViews(products []model.Product) []model.ProductView {
	views := make([]model.ProductView, 0, len(products))
	for i := range products {
		views = append(views, products[i].ToView())
	}
	return views
}
