package midtrans

// ChargeRequest is the payload sent to the provider's charge endpoint.
// Gross amount and item prices are whole units; the provider recomputes its
// own total from the item list, so the two must agree exactly.
type ChargeRequest struct {
	PaymentType        string              `json:"payment_type"`
	TransactionDetails TransactionDetails  `json:"transaction_details"`
	ItemDetails        []ItemDetail        `json:"item_details"`
	CustomerDetails    CustomerDetails     `json:"customer_details"`
	BankTransfer       *BankTransferDetail `json:"bank_transfer,omitempty"`
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type CustomerDetails struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name,omitempty"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
}

type Address struct {
	FirstName  string `json:"first_name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type BankTransferDetail struct {
	Bank string `json:"bank"`
}

// chargeResponse mirrors the provider's charge response shape.
type chargeResponse struct {
	StatusCode        string          `json:"status_code"`
	StatusMessage     string          `json:"status_message"`
	TransactionID     string          `json:"transaction_id"`
	TransactionStatus string          `json:"transaction_status"`
	PaymentType       string          `json:"payment_type"`
	ExpiryTime        string          `json:"expiry_time"`
	VANumbers         []VANumberEntry `json:"va_numbers"`
	PermataVANumber   string          `json:"permata_va_number"`
	QRString          string          `json:"qr_string"`
	QRURL             string          `json:"qr_url"`
	Actions           []Action        `json:"actions"`
}

// VANumberEntry is one virtual-account assignment in a provider payload.
type VANumberEntry struct {
	Bank     string `json:"bank"`
	VANumber string `json:"va_number"`
}

// Action is a client-side instruction attached to a provider payload.
type Action struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Notification is the JSON body of an inbound provider webhook.
type Notification struct {
	OrderID           string          `json:"order_id"`
	StatusCode        string          `json:"status_code"`
	GrossAmount       string          `json:"gross_amount"`
	SignatureKey      string          `json:"signature_key"`
	TransactionID     string          `json:"transaction_id"`
	TransactionStatus string          `json:"transaction_status"`
	PaymentType       string          `json:"payment_type"`
	VANumbers         []VANumberEntry `json:"va_numbers"`
	PermataVANumber   string          `json:"permata_va_number"`
	QRString          string          `json:"qr_string"`
	QRURL             string          `json:"qr_url"`
	Actions           []Action        `json:"actions"`
}

// VANumber returns the first virtual account number/bank pair, preferring
// the generic list over the permata fallback field.
func (n Notification) VANumber() (number, bank string) {
	if len(n.VANumbers) > 0 {
		return n.VANumbers[0].VANumber, n.VANumbers[0].Bank
	}
	if n.PermataVANumber != "" {
		return n.PermataVANumber, "permata"
	}
	return "", ""
}

// RedirectURL returns the deeplink-redirect action URL when present.
func (n Notification) RedirectURL() string {
	for _, a := range n.Actions {
		if a.Name == "deeplink-redirect" {
			return a.URL
		}
	}
	return ""
}
