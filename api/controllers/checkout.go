package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bayuwidodo/belanja-backend/api/responses"
	"github.com/bayuwidodo/belanja-backend/api/validators"
	checkoutsvc "github.com/bayuwidodo/belanja-backend/internal/checkout"
	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/bayuwidodo/belanja-backend/pkg/enums"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/bayuwidodo/belanja-backend/pkg/logger"
)

// checkoutResponse is the commit result: order identity, the persisted
// totals, and the payment instructions the customer needs next.
type checkoutResponse struct {
	OrderNumber   string                 `json:"order_number"`
	Status        enums.OrderStatus      `json:"status"`
	PaymentStatus enums.PaymentStatus    `json:"payment_status"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	ShippingCost  decimal.Decimal        `json:"shipping_cost"`
	Discount      decimal.Decimal        `json:"discount"`
	Total         decimal.Decimal        `json:"total"`
	Payment       *paymentInstructions   `json:"payment,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type paymentInstructions struct {
	PaymentType string     `json:"payment_type,omitempty"`
	VANumber    *string    `json:"va_number,omitempty"`
	VABank      *string    `json:"va_bank,omitempty"`
	QRString    *string    `json:"qr_string,omitempty"`
	QRURL       *string    `json:"qr_url,omitempty"`
	RedirectURL *string    `json:"redirect_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func newCheckoutResponse(order *models.Order) checkoutResponse {
	resp := checkoutResponse{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		ShippingCost:  order.ShippingCost,
		Discount:      order.Discount,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}
	if len(order.Transactions) > 0 {
		txn := order.Transactions[0]
		resp.Payment = &paymentInstructions{
			PaymentType: txn.PaymentType,
			VANumber:    txn.VANumber,
			VABank:      txn.VABank,
			QRString:    txn.QRString,
			QRURL:       txn.QRURL,
			RedirectURL: txn.RedirectURL,
			ExpiresAt:   txn.ExpiresAt,
		}
	}
	return resp
}

// CheckoutValidate runs the pre-flight pass over the customer's cart and
// returns either the quote or the full list of failing lines.
func CheckoutValidate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Validate(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// Checkout commits the customer's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), customerID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(order))
	}
}
