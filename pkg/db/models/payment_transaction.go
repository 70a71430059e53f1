package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bayuwidodo/belanja-backend/pkg/enums"
)

// PaymentTransaction records the provider-side payment intent for an order,
// including the channel instructions shown to the customer and the raw
// provider payload kept for audit. Updated in place by the webhook
// reconciler.
type PaymentTransaction struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	ProviderTxID string             `gorm:"column:provider_tx_id"`
	Status      enums.PaymentStatus `gorm:"column:status;not null;default:'PENDING'"`
	GrossAmount decimal.Decimal     `gorm:"column:gross_amount;type:numeric(14,2);not null"`
	PaymentType string              `gorm:"column:payment_type"`

	VANumber    *string `gorm:"column:va_number"`
	VABank      *string `gorm:"column:va_bank"`
	QRString    *string `gorm:"column:qr_string"`
	QRURL       *string `gorm:"column:qr_url"`
	RedirectURL *string `gorm:"column:redirect_url"`

	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	RawPayload []byte     `gorm:"column:raw_payload;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
