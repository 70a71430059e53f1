package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the immutable snapshot of a cart line at commit time.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string          `gorm:"column:product_name;not null"`
	VariantName  *string         `gorm:"column:variant_name"`
	VariantColor *string         `gorm:"column:variant_color"`
	VariantSize  *string         `gorm:"column:variant_size"`
	VariantImage *string         `gorm:"column:variant_image"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
