package checkout

import (
	"fmt"

	"github.com/bayuwidodo/belanja-backend/pkg/config"
	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/bayuwidodo/belanja-backend/pkg/midtrans"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider-facing synthetic line identifiers.
const (
	taxLineID      = "TAX"
	shippingLineID = "SHIPPING"
	discountLineID = "DISCOUNT"
)

// Policy carries the pricing knobs applied to every quote.
type Policy struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	Discount              decimal.Decimal
}

// PolicyFromConfig parses the configured pricing policy.
func PolicyFromConfig(cfg config.CheckoutConfig) (Policy, error) {
	if cfg.TaxRatePercent < 0 || cfg.TaxRatePercent > 100 {
		return Policy{}, fmt.Errorf("tax rate percent out of range: %d", cfg.TaxRatePercent)
	}
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return Policy{}, fmt.Errorf("parsing free shipping threshold: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.FlatShippingFee)
	if err != nil {
		return Policy{}, fmt.Errorf("parsing flat shipping fee: %w", err)
	}
	return Policy{
		TaxRate:               decimal.NewFromInt(int64(cfg.TaxRatePercent)).Div(decimal.NewFromInt(100)),
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		Discount:              decimal.Zero,
	}, nil
}

// PricedLine is one cart line priced at the product's current effective
// price. LineTotal is unrounded.
type PricedLine struct {
	ProductID    uuid.UUID
	ProductName  string
	VariantName  *string
	VariantColor *string
	VariantSize  *string
	VariantImage *string
	UnitPrice    decimal.Decimal
	Quantity     int
	LineTotal    decimal.Decimal
}

// Quote is the full pricing breakdown for a cart.
//
// Total is the provider-facing rounded total: the sum of whole-unit-rounded
// line prices times quantity, including the synthetic tax and shipping
// lines. The provider recomputes its own total from the item list it
// receives, so this is the amount actually charged; it is persisted as the
// order total even when it differs by rounding cents from ArithmeticTotal.
type Quote struct {
	Lines           []PricedLine
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	ShippingCost    decimal.Decimal
	Discount        decimal.Decimal
	ArithmeticTotal decimal.Decimal
	Total           decimal.Decimal
	ProviderItems   []midtrans.ItemDetail
	GrossAmount     int64
}

// Price computes the quote for validated cart lines.
func Price(items []models.CartItem, policy Policy) (*Quote, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no cart lines to price")
	}

	quote := &Quote{
		Lines:    make([]PricedLine, 0, len(items)),
		Subtotal: decimal.Zero,
		Discount: policy.Discount,
	}

	for _, item := range items {
		if item.Product == nil {
			return nil, fmt.Errorf("cart line %s missing product", item.ID)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("cart line %s has non-positive quantity", item.ID)
		}

		unit := item.Product.EffectivePrice()
		line := PricedLine{
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			VariantName:  item.VariantName,
			VariantColor: item.VariantColor,
			VariantSize:  item.VariantSize,
			VariantImage: item.VariantImage,
			UnitPrice:    unit,
			Quantity:     item.Quantity,
			LineTotal:    unit.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		quote.Lines = append(quote.Lines, line)
		quote.Subtotal = quote.Subtotal.Add(line.LineTotal)
	}

	quote.Tax = quote.Subtotal.Mul(policy.TaxRate).Round(2)
	if quote.Subtotal.GreaterThanOrEqual(policy.FreeShippingThreshold) {
		quote.ShippingCost = decimal.Zero
	} else {
		quote.ShippingCost = policy.FlatShippingFee
	}
	quote.ArithmeticTotal = quote.Subtotal.
		Sub(quote.Discount).
		Add(quote.Tax).
		Add(quote.ShippingCost).
		Round(2)

	quote.ProviderItems, quote.GrossAmount = providerItems(quote)
	quote.Total = decimal.NewFromInt(quote.GrossAmount)
	return quote, nil
}

// providerItems re-expresses the quote as whole-unit line items, appending
// synthetic tax, shipping, and discount lines. The provider rejects fractional unit
// prices and recomputes its total from this list, so the sum returned here
// is the real charge amount.
func providerItems(quote *Quote) ([]midtrans.ItemDetail, int64) {
	items := make([]midtrans.ItemDetail, 0, len(quote.Lines)+2)
	var total int64

	for _, line := range quote.Lines {
		price := roundWhole(line.UnitPrice)
		items = append(items, midtrans.ItemDetail{
			ID:       line.ProductID.String(),
			Name:     itemName(line),
			Price:    price,
			Quantity: line.Quantity,
		})
		total += price * int64(line.Quantity)
	}

	if tax := roundWhole(quote.Tax); tax != 0 {
		items = append(items, midtrans.ItemDetail{ID: taxLineID, Name: "Tax", Price: tax, Quantity: 1})
		total += tax
	}
	if shipping := roundWhole(quote.ShippingCost); shipping != 0 {
		items = append(items, midtrans.ItemDetail{ID: shippingLineID, Name: "Shipping", Price: shipping, Quantity: 1})
		total += shipping
	}
	if discount := roundWhole(quote.Discount); discount != 0 {
		items = append(items, midtrans.ItemDetail{ID: discountLineID, Name: "Discount", Price: -discount, Quantity: 1})
		total -= discount
	}

	return items, total
}

func roundWhole(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

func itemName(line PricedLine) string {
	if line.VariantName != nil && *line.VariantName != "" {
		return line.ProductName + " (" + *line.VariantName + ")"
	}
	return line.ProductName
}
