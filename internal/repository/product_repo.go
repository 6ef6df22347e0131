package repository

import (
	"context"
	"strings"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductFilter narrows a listing. Soft-deleted rows are always excluded.
type ProductFilter struct {
	Search     string
	MaxPrice   *decimal.Decimal
	CategoryID *uint
}

type ProductQuery struct {
	Filter    ProductFilter
	SortBy    SortField
	SortOrder SortOrder
	Offset    int
	Limit     int
}

type ProductRepository interface {
	List(ctx context.Context, q ProductQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	LockByIDs(ctx context.Context, ids []uint) (map[uint]*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, id uint, in *model.UpdateProductInput) (*model.Product, error)
	SoftDelete(ctx context.Context, id uint) (*model.Product, error)
	DecrementStock(ctx context.Context, id uint, quantity int) error
	Statistics(ctx context.Context, categoryID *uint) (*model.ProductStatistics, error)
	StatisticsByCategory(ctx context.Context, categoryID *uint) ([]model.CategoryStatistics, error)
	Overview(ctx context.Context, lowStockThreshold int) (*model.InventoryOverview, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// activeOnly is the visibility predicate for products
func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("products.deleted_at IS NULL")
}

func (r *productRepo) applyFilter(db *gorm.DB, f ProductFilter) *gorm.DB {
	if f.Search != "" {
		if strings.EqualFold(db.Dialector.Name(), "postgres") {
			db = db.Where(`products.name ILIKE ? ESCAPE '\'`, containsPattern(f.Search))
		} else {
			db = db.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, containsPattern(strings.ToLower(f.Search)))
		}
	}
	if f.MaxPrice != nil {
		db = db.Where("products.price <= ?", *f.MaxPrice)
	}
	if f.CategoryID != nil {
		db = db.Where("products.category_id = ?", *f.CategoryID)
	}
	return db
}

func (r *productRepo) List(ctx context.Context, q ProductQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	base := r.applyFilter(activeOnly(r.db.WithContext(ctx).Model(&model.Product{})), q.Filter).
		Session(&gorm.Session{})

	// total reflects the filter, not the page
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	query := base.Preload("Category")
	for _, order := range orderClauses(q.SortBy, q.SortOrder) {
		query = query.Order(order)
	}
	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}

	return products, total, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Scopes(activeOnly).Preload("Category").First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, errors.Wrap(err, "find product")
	}
	return &product, nil
}

// LockByIDs loads the active products among ids and holds their rows locked
// until the surrounding unit of work ends. Rows are locked in ascending id
// order so two checkouts over the same products cannot deadlock each other.
// Missing or deleted ids are simply absent from the result.
func (r *productRepo) LockByIDs(ctx context.Context, ids []uint) (map[uint]*model.Product, error) {
	var products []model.Product
	err := forUpdate(r.db.WithContext(ctx).Scopes(activeOnly)).
		Where("products.id IN ?", ids).
		Order("products.id ASC").
		Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "lock products")
	}

	locked := make(map[uint]*model.Product, len(products))
	for i := range products {
		locked[products[i].ID] = &products[i]
	}
	return locked, nil
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	if product.Stock < 0 {
		return apperr.Validation("stock", "must not be negative")
	}
	exists, err := NewCategoryRepo(r.db).Exists(ctx, product.CategoryID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Reference("category", product.CategoryID)
	}

	product.DeletedAt = nil
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return errors.Wrap(err, "create product")
	}
	return nil
}

// Update overwrites only the supplied fields of an active product
func (r *productRepo) Update(ctx context.Context, id uint, in *model.UpdateProductInput) (*model.Product, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, apperr.Validation("stock", "must not be negative")
		}
		updates["stock"] = *in.Stock
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.CategoryID != nil {
		exists, err := NewCategoryRepo(r.db).Exists(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.Reference("category", *in.CategoryID)
		}
		updates["category_id"] = *in.CategoryID
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(activeOnly).
			Where("products.id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, errors.Wrap(result.Error, "update product")
		}
		if result.RowsAffected == 0 {
			return nil, apperr.NotFound("product", id)
		}
	}

	return r.FindByID(ctx, id)
}

// SoftDelete hides the product. A second call fails with NotFoundError.
func (r *productRepo) SoftDelete(ctx context.Context, id uint) (*model.Product, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(activeOnly).
		Where("products.id = ?", id).
		Update("deleted_at", now)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "soft delete product")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("product", id)
	}

	product.DeletedAt = &now
	return product, nil
}

// DecrementStock takes quantity off an active product's stock in one
// conditional read-modify-write, so stock never drops below zero even when
// the surrounding transaction holds no row lock.
func (r *productRepo) DecrementStock(ctx context.Context, id uint, quantity int) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(activeOnly).
		Where("products.id = ? AND products.stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock - ?", quantity),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "decrement stock")
	}
	if result.RowsAffected == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return &apperr.InsufficientStockError{
		ProductID:   current.ID,
		ProductName: current.Name,
		Available:   current.Stock,
		Requested:   quantity,
	}
}

func (r *productRepo) Statistics(ctx context.Context, categoryID *uint) (*model.ProductStatistics, error) {
	var stats model.ProductStatistics
	err := r.applyFilter(activeOnly(r.db.WithContext(ctx).Model(&model.Product{})), ProductFilter{CategoryID: categoryID}).
		Select(`
			COUNT(products.id) AS count,
			COALESCE(AVG(products.price), 0) AS avg_price,
			COALESCE(MAX(products.price), 0) AS max_price,
			COALESCE(MIN(products.price), 0) AS min_price,
			COALESCE(SUM(products.stock), 0) AS sum_stock
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, errors.Wrap(err, "product statistics")
	}
	return &stats, nil
}

func (r *productRepo) StatisticsByCategory(ctx context.Context, categoryID *uint) ([]model.CategoryStatistics, error) {
	results := []model.CategoryStatistics{}
	err := r.applyFilter(activeOnly(r.db.WithContext(ctx).Model(&model.Product{})), ProductFilter{CategoryID: categoryID}).
		Select(`
			products.category_id AS category_id,
			COUNT(products.id) AS count,
			COALESCE(AVG(products.price), 0) AS avg_price
		`).
		Group("products.category_id").
		Order("products.category_id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, errors.Wrap(err, "category statistics")
	}
	return results, nil
}

func (r *productRepo) Overview(ctx context.Context, lowStockThreshold int) (*model.InventoryOverview, error) {
	var overview model.InventoryOverview
	err := activeOnly(r.db.WithContext(ctx).Model(&model.Product{})).
		Select(`
			COUNT(products.id) AS active_products,
			COALESCE(SUM(CASE WHEN products.stock < ? THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(products.price * products.stock), 0) AS inventory_value
		`, lowStockThreshold).
		Scan(&overview).Error
	if err != nil {
		return nil, errors.Wrap(err, "inventory overview")
	}
	return &overview, nil
}
