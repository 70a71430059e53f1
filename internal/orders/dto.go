package orders

import (
	"time"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/bayuwidodo/belanja-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the row shape returned by the customer order list.
type Summary struct {
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Total         decimal.Decimal     `json:"total"`
	TotalItems    int                 `json:"total_items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// List wraps the paginated summaries plus the next page cursor.
type List struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ItemView is one snapshotted order line.
type ItemView struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	VariantName *string         `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PaymentView carries the channel instructions the customer needs to
// complete payment, from the latest payment transaction.
type PaymentView struct {
	Status      enums.PaymentStatus `json:"status"`
	PaymentType string              `json:"payment_type,omitempty"`
	VANumber    *string             `json:"va_number,omitempty"`
	VABank      *string             `json:"va_bank,omitempty"`
	QRString    *string             `json:"qr_string,omitempty"`
	QRURL       *string             `json:"qr_url,omitempty"`
	RedirectURL *string             `json:"redirect_url,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty"`
}

// ShippingView is the address snapshot captured at commit time.
type ShippingView struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// Detail is the full customer-facing order view.
type Detail struct {
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"tax"`
	ShippingCost  decimal.Decimal     `json:"shipping_cost"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	Items         []ItemView          `json:"items"`
	Payment       *PaymentView        `json:"payment,omitempty"`
	Shipping      ShippingView        `json:"shipping"`
	Notes         *string             `json:"notes,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

func newSummary(order models.Order) Summary {
	items := 0
	for _, item := range order.Items {
		items += item.Quantity
	}
	return Summary{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total,
		TotalItems:    items,
		CreatedAt:     order.CreatedAt,
	}
}

func newDetail(order *models.Order) *Detail {
	detail := &Detail{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		ShippingCost:  order.ShippingCost,
		Discount:      order.Discount,
		Total:         order.Total,
		Items:         make([]ItemView, 0, len(order.Items)),
		Shipping: ShippingView{
			Recipient:  order.ShipRecipient,
			Phone:      order.ShipPhone,
			Street:     order.ShipStreet,
			City:       order.ShipCity,
			Province:   order.ShipProvince,
			PostalCode: order.ShipPostalCode,
		},
		Notes:     order.Notes,
		PaidAt:    order.PaidAt,
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, ItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	// Transactions are preloaded newest-first.
	if len(order.Transactions) > 0 {
		txn := order.Transactions[0]
		detail.Payment = &PaymentView{
			Status:      txn.Status,
			PaymentType: txn.PaymentType,
			VANumber:    txn.VANumber,
			VABank:      txn.VABank,
			QRString:    txn.QRString,
			QRURL:       txn.QRURL,
			RedirectURL: txn.RedirectURL,
			ExpiresAt:   txn.ExpiresAt,
		}
	}
	return detail
}
