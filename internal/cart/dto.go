package cart

import (
	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput carries the request to add a product to the cart.
type AddItemInput struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
	VariantName  *string   `json:"variant_name,omitempty"`
	VariantColor *string   `json:"variant_color,omitempty"`
	VariantSize  *string   `json:"variant_size,omitempty"`
	VariantImage *string   `json:"variant_image,omitempty"`
}

// ItemView is one cart line projected for the client, priced at the
// product's current effective price.
type ItemView struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ImageURL     *string         `json:"image_url,omitempty"`
	VariantName  *string         `json:"variant_name,omitempty"`
	VariantColor *string         `json:"variant_color,omitempty"`
	VariantSize  *string         `json:"variant_size,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	InStock      bool            `json:"in_stock"`
}

// View is the whole cart projection. Subtotal is advisory; checkout
// recomputes everything from live product rows.
type View struct {
	ID       uuid.UUID       `json:"id"`
	Items    []ItemView      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func newView(cart *models.Cart) *View {
	view := &View{
		ID:       cart.ID,
		Items:    make([]ItemView, 0, len(cart.Items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range cart.Items {
		line := ItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			VariantName:  item.VariantName,
			VariantColor: item.VariantColor,
			VariantSize:  item.VariantSize,
			Quantity:     item.Quantity,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.ImageURL = item.Product.ImageURL
			line.UnitPrice = item.Product.EffectivePrice()
			line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			line.InStock = item.Product.IsActive && item.Product.Stock >= item.Quantity
			view.Subtotal = view.Subtotal.Add(line.LineTotal)
		}
		view.Items = append(view.Items, line)
	}
	return view
}
