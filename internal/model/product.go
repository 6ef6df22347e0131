package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SoftDelete
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description *string         `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Image       *string         `gorm:"type:varchar(512)" json:"image"`

	// Relasi
	CategoryID uint     `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// ProductView is what callers see of a product. It never carries DeletedAt.
type ProductView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       *string         `json:"image"`
	Category    CategoryView    `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToView converts Product to ProductView. Category must be loaded for a non-empty category.
func (p *Product) ToView() ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		Category:    p.Category.ToView(),
		CreatedAt:   p.CreatedAt,
	}
}

// CreateProductInput is the inbound DTO for product creation
type CreateProductInput struct {
	Name        string          `json:"name" form:"name" validate:"required,min=1,max=255"`
	Description *string         `json:"description" form:"description"`
	Price       decimal.Decimal `json:"price" form:"price"`
	Stock       int             `json:"stock" form:"stock" validate:"gte=0"`
	CategoryID  uint            `json:"categoryId" form:"categoryId" validate:"required"`
	Image       *string         `json:"image" form:"image"`
}

// UpdateProductInput carries only the fields the caller wants overwritten
type UpdateProductInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *uint            `json:"categoryId" validate:"omitempty,gt=0"`
	Image       *string          `json:"image"`
}

// IsEmpty reports whether no field was supplied
func (in *UpdateProductInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Price == nil &&
		in.Stock == nil && in.CategoryID == nil && in.Image == nil
}

// ProductStatistics is the aggregate over active products
type ProductStatistics struct {
	Count    int64           `json:"count"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
	MaxPrice decimal.Decimal `json:"maxPrice"`
	MinPrice decimal.Decimal `json:"minPrice"`
	SumStock int64           `json:"sumStock"`
}

// CategoryStatistics is one row of the per-category grouping
type CategoryStatistics struct {
	CategoryID uint            `json:"categoryId"`
	Count      int64           `json:"count"`
	AvgPrice   decimal.Decimal `json:"avgPrice"`
}

// InventoryOverview summarises active stock for the dashboard
type InventoryOverview struct {
	ActiveProducts int64           `json:"activeProducts"`
	LowStockCount  int64           `json:"lowStockCount"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}
