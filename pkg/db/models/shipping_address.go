package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is customer-owned mailing data. Orders copy these fields
// instead of referencing the row, so later edits never rewrite history.
type ShippingAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	Label      string    `gorm:"column:label;not null"`
	Recipient  string    `gorm:"column:recipient;not null"`
	Phone      string    `gorm:"column:phone;not null"`
	Street     string    `gorm:"column:street;not null"`
	City       string    `gorm:"column:city;not null"`
	Province   string    `gorm:"column:province;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
