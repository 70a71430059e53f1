package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem ties one product (and optional variant selection) to a cart.
// Superseded by an OrderItem snapshot at commit time.
type CartItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	VariantName  *string   `gorm:"column:variant_name"`
	VariantColor *string   `gorm:"column:variant_color"`
	VariantSize  *string   `gorm:"column:variant_size"`
	VariantImage *string   `gorm:"column:variant_image"`
	Product      *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
