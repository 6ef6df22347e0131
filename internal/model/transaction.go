package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable checkout record. Total is always computed server-side.
type Transaction struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"`
	User      *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Total     decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"total"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
	Items     []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// TransactionItem snapshots the unit price at purchase time.
// PriceAtTime must never be recomputed from the product's current price.
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	PriceAtTime   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_time"`
}

// LineTotal is the snapshot price times quantity
func (i *TransactionItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CheckoutItem struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest is the inbound DTO for the checkout engine
type CheckoutRequest struct {
	UserID uint           `json:"userId" validate:"required"`
	Items  []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

type TransactionItemView struct {
	ProductID   uint            `json:"productId"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"priceAtTime"`
	Product     *ProductView    `json:"product,omitempty"`
}

type TransactionView struct {
	ID        uint                  `json:"id"`
	UserID    uint                  `json:"userId"`
	User      *UserView             `json:"user,omitempty"`
	Total     decimal.Decimal       `json:"total"`
	CreatedAt time.Time             `json:"createdAt"`
	Items     []TransactionItemView `json:"items"`
}

// ToView converts a loaded Transaction into its outbound shape.
// Products referenced by items may be soft-deleted; they are still shown.
func (t *Transaction) ToView() TransactionView {
	view := TransactionView{
		ID:        t.ID,
		UserID:    t.UserID,
		Total:     t.Total,
		CreatedAt: t.CreatedAt,
		Items:     make([]TransactionItemView, 0, len(t.Items)),
	}

	if t.User != nil {
		userView := t.User.ToView()
		view.User = &userView
	}

	for _, item := range t.Items {
		itemView := TransactionItemView{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		}
		if item.Product != nil {
			productView := item.Product.ToView()
			itemView.Product = &productView
		}
		view.Items = append(view.Items, itemView)
	}

	return view
}

// DailySales is one row of the ledger's per-day summary
type DailySales struct {
	Date         string          `json:"date"`
	Transactions int64           `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}
