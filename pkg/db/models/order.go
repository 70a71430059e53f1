package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bayuwidodo/belanja-backend/pkg/enums"
)

// Order is created exactly once per checkout. Identity and amounts are
// immutable; only Status and PaymentStatus (plus the payment audit fields)
// are mutated afterwards.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID     uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;default:'PENDING'"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;not null;default:'PENDING'"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentChannel *string             `gorm:"column:payment_channel"`
	TransactionID  *string             `gorm:"column:transaction_id"`

	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null"`
	Tax          decimal.Decimal `gorm:"column:tax;type:numeric(14,2);not null"`
	ShippingCost decimal.Decimal `gorm:"column:shipping_cost;type:numeric(14,2);not null"`
	Discount     decimal.Decimal `gorm:"column:discount;type:numeric(14,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`

	// Shipping address snapshot, copied at commit time.
	ShipRecipient  string `gorm:"column:ship_recipient;not null"`
	ShipPhone      string `gorm:"column:ship_phone;not null"`
	ShipStreet     string `gorm:"column:ship_street;not null"`
	ShipCity       string `gorm:"column:ship_city;not null"`
	ShipProvince   string `gorm:"column:ship_province;not null"`
	ShipPostalCode string `gorm:"column:ship_postal_code;not null"`

	Notes  *string    `gorm:"column:notes"`
	PaidAt *time.Time `gorm:"column:paid_at"`

	Items        []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Transactions []PaymentTransaction `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
