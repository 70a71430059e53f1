package checkout

import (
	"github.com/bayuwidodo/belanja-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Input carries the checkout commit request.
type Input struct {
	AddressID      uuid.UUID           `json:"address_id" validate:"required"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method" validate:"required"`
	PaymentChannel *string             `json:"payment_channel,omitempty"`
	Notes          *string             `json:"notes,omitempty"`
}

// ValidationReport is the pre-flight validate result: the complete list of
// failing lines plus the pricing summary when everything passes.
type ValidationReport struct {
	Valid   bool          `json:"valid"`
	Errors  []LineFailure `json:"errors,omitempty"`
	Summary *QuoteView    `json:"summary,omitempty"`
}

// QuoteView is the client-facing pricing summary.
type QuoteView struct {
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

func newQuoteView(quote *Quote) *QuoteView {
	count := 0
	for _, line := range quote.Lines {
		count += line.Quantity
	}
	return &QuoteView{
		ItemCount:    count,
		Subtotal:     quote.Subtotal,
		Tax:          quote.Tax,
		ShippingCost: quote.ShippingCost,
		Discount:     quote.Discount,
		Total:        quote.Total,
	}
}
