package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Stock and SalesCount are only
// mutated inside the order commit transaction.
type Product struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string           `gorm:"column:name;not null"`
	Slug       string           `gorm:"column:slug;not null;uniqueIndex"`
	Price      decimal.Decimal  `gorm:"column:price;type:numeric(14,2);not null"`
	SalePrice  *decimal.Decimal `gorm:"column:sale_price;type:numeric(14,2)"`
	Stock      int              `gorm:"column:stock;not null;default:0"`
	SalesCount int              `gorm:"column:sales_count;not null;default:0"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	ImageURL   *string          `gorm:"column:image_url"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the sale price when present and lower than the
// list price, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.Price) {
		return *p.SalePrice
	}
	return p.Price
}
