package midtrans

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bayuwidodo/belanja-backend/pkg/config"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
)

func testConfig() config.MidtransConfig {
	return config.MidtransConfig{ServerKey: "SB-Mid-server-test", Env: "sandbox"}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(config.MidtransConfig{ServerKey: "  "}); err == nil {
		t.Fatalf("expected error for empty server key")
	}
	if _, err := NewClient(config.MidtransConfig{ServerKey: "key", Env: "staging"}); err == nil {
		t.Fatalf("expected error for unknown environment")
	}
	client, err := NewClient(testConfig())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.baseURL != "https://api.sandbox.midtrans.com" {
		t.Fatalf("unexpected base url %q", client.baseURL)
	}
}

func TestChargeBankTransfer(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody ChargeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/charge" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"status_code": "201",
			"status_message": "Success, Bank Transfer transaction is created",
			"transaction_id": "tx-123",
			"transaction_status": "pending",
			"payment_type": "bank_transfer",
			"expiry_time": "2026-01-02 15:04:05",
			"va_numbers": [{"bank": "bca", "va_number": "1234567890"}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	result, err := client.Charge(context.Background(), ChargeRequest{
		PaymentType:        "bank_transfer",
		TransactionDetails: TransactionDetails{OrderID: "ORD/20260101/AB12CD", GrossAmount: 55},
		ItemDetails:        []ItemDetail{{ID: "p1", Name: "Widget", Price: 25, Quantity: 2}},
		CustomerDetails:    CustomerDetails{FirstName: "Ayu", Email: "ayu@example.com"},
		BankTransfer:       &BankTransferDetail{Bank: "bca"},
	})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("SB-Mid-server-test:"))
	if gotAuth != wantAuth {
		t.Fatalf("authorization = %q, want %q", gotAuth, wantAuth)
	}
	if gotBody.TransactionDetails.GrossAmount != 55 {
		t.Fatalf("gross amount sent = %d", gotBody.TransactionDetails.GrossAmount)
	}
	if result.TransactionID != "tx-123" || result.Status != "pending" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.VANumber == nil || *result.VANumber != "1234567890" {
		t.Fatalf("va number not parsed: %+v", result)
	}
	if result.VABank == nil || *result.VABank != "bca" {
		t.Fatalf("va bank not parsed: %+v", result)
	}
	if result.ExpiresAt == nil {
		t.Fatalf("expiry not parsed")
	}
	if len(result.RawPayload) == 0 || !strings.Contains(string(result.RawPayload), "tx-123") {
		t.Fatalf("raw payload not retained")
	}
}

func TestChargeQRIS(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"status_code": "201",
			"transaction_id": "tx-qr",
			"transaction_status": "pending",
			"payment_type": "qris",
			"qr_string": "00020101021226",
			"actions": [{"name": "generate-qr-code", "url": "https://example.test/qr.png"}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	result, err := client.Charge(context.Background(), ChargeRequest{
		PaymentType:        "qris",
		TransactionDetails: TransactionDetails{OrderID: "ORD/20260101/QR12CD", GrossAmount: 38},
	})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if result.QRString == nil || *result.QRString != "00020101021226" {
		t.Fatalf("qr string not parsed: %+v", result)
	}
	if result.VANumber != nil {
		t.Fatalf("unexpected va number on qris result")
	}
}

func TestChargeProviderRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code": "401", "status_message": "Access denied"}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Charge(context.Background(), ChargeRequest{
		PaymentType:        "bank_transfer",
		TransactionDetails: TransactionDetails{OrderID: "ORD/20260101/ER12OR", GrossAmount: 10},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != pkgerrors.CodePaymentIntentFailed {
		t.Fatalf("code = %s, want %s", appErr.Code(), pkgerrors.CodePaymentIntentFailed)
	}
}

func TestChargeRequestValidation(t *testing.T) {
	t.Parallel()

	client, err := NewClient(testConfig())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Charge(context.Background(), ChargeRequest{
		TransactionDetails: TransactionDetails{GrossAmount: 10},
	}); err == nil {
		t.Fatalf("expected error for missing order id")
	}
	if _, err := client.Charge(context.Background(), ChargeRequest{
		TransactionDetails: TransactionDetails{OrderID: "ORD/20260101/AB12CD"},
	}); err == nil {
		t.Fatalf("expected error for non-positive gross amount")
	}
}
