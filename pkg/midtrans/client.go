package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bayuwidodo/belanja-backend/pkg/config"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"

	expiryTimeLayout = "2006-01-02 15:04:05"

	responseBodyReadLimit int64 = 1 << 20
)

var (
	errServerKeyRequired = errors.New("midtrans server key is required")
	errInvalidEnv        = fmt.Errorf("midtrans environment must be %q or %q", sandboxEnv, productionEnv)
)

var baseURLs = map[string]string{
	sandboxEnv:    "https://api.sandbox.midtrans.com",
	productionEnv: "https://api.midtrans.com",
}

// Client wraps the provider's charge API with centralized auth, timeouts,
// and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serverKey  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL; used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient initializes the provider wrapper and validates the credentials.
func NewClient(cfg config.MidtransConfig, opts ...Option) (*Client, error) {
	serverKey := strings.TrimSpace(cfg.ServerKey)
	if serverKey == "" {
		return nil, errServerKeyRequired
	}

	env := cfg.Environment()
	baseURL, ok := baseURLs[env]
	if !ok {
		return nil, errInvalidEnv
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		serverKey:  serverKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ServerKey returns the configured key; the webhook reconciler needs it to
// verify notification signatures.
func (c *Client) ServerKey() string {
	if c == nil {
		return ""
	}
	return c.serverKey
}

// ChargeResult is the normalized payment intent returned by the provider.
type ChargeResult struct {
	TransactionID string
	Status        string
	PaymentType   string
	VANumber      *string
	VABank        *string
	QRString      *string
	QRURL         *string
	RedirectURL   *string
	ExpiresAt     *time.Time
	RawPayload    []byte
}

// Charge creates a payment intent. Any provider-side rejection surfaces as
// PAYMENT_INTENT_FAILED so the caller aborts before touching the database.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "midtrans client not configured")
	}
	if req.TransactionDetails.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if req.TransactionDetails.GrossAmount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gross amount must be positive")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode charge request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/charge", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build charge request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentIntentFailed, err, "calling payment provider")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentIntentFailed, err, "reading provider response")
	}

	var parsed chargeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentIntentFailed, err, "decoding provider response")
	}

	if resp.StatusCode >= 300 || !isAcceptedStatusCode(parsed.StatusCode) {
		msg := parsed.StatusMessage
		if msg == "" {
			msg = fmt.Sprintf("provider returned http %d", resp.StatusCode)
		}
		return nil, pkgerrors.New(pkgerrors.CodePaymentIntentFailed, msg).
			WithDetails(map[string]any{"status_code": parsed.StatusCode})
	}

	return newChargeResult(parsed, raw), nil
}

// Charge API reports 201 for pending transactions and 200 for instant
// settlement channels.
func isAcceptedStatusCode(code string) bool {
	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return n >= 200 && n < 300
}

func newChargeResult(parsed chargeResponse, raw []byte) *ChargeResult {
	result := &ChargeResult{
		TransactionID: parsed.TransactionID,
		Status:        parsed.TransactionStatus,
		PaymentType:   parsed.PaymentType,
		RawPayload:    raw,
	}

	if len(parsed.VANumbers) > 0 {
		result.VANumber = ptr(parsed.VANumbers[0].VANumber)
		result.VABank = ptr(parsed.VANumbers[0].Bank)
	} else if parsed.PermataVANumber != "" {
		result.VANumber = ptr(parsed.PermataVANumber)
		result.VABank = ptr("permata")
	}

	if parsed.QRString != "" {
		result.QRString = ptr(parsed.QRString)
	}
	if parsed.QRURL != "" {
		result.QRURL = ptr(parsed.QRURL)
	}
	for _, a := range parsed.Actions {
		if a.Name == "deeplink-redirect" {
			result.RedirectURL = ptr(a.URL)
			break
		}
	}

	if parsed.ExpiryTime != "" {
		if expiry, err := time.ParseInLocation(expiryTimeLayout, parsed.ExpiryTime, time.Local); err == nil {
			result.ExpiresAt = &expiry
		}
	}

	return result
}

func ptr(s string) *string {
	return &s
}
