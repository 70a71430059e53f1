package webhooks_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webhookcontrollers "github.com/bayuwidodo/belanja-backend/api/controllers/webhooks"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/bayuwidodo/belanja-backend/pkg/midtrans"
)

type stubWebhookService struct {
	err     error
	badSig  bool
	seen    []midtrans.Notification
	rawSeen [][]byte
}

func (s *stubWebhookService) VerifySignature(n midtrans.Notification) bool {
	return !s.badSig
}

func (s *stubWebhookService) HandleNotification(ctx context.Context, n midtrans.Notification, raw []byte) error {
	s.seen = append(s.seen, n)
	s.rawSeen = append(s.rawSeen, raw)
	return s.err
}

type stubGuard struct {
	processed bool
	err       error
	marked    []string
	released  []string
}

func (g *stubGuard) CheckAndMark(ctx context.Context, notificationID string) (bool, error) {
	g.marked = append(g.marked, notificationID)
	return g.processed, g.err
}

func (g *stubGuard) Release(ctx context.Context, notificationID string) error {
	g.released = append(g.released, notificationID)
	return nil
}

const notificationBody = `{
	"order_id": "ORD/20260901/7KQ2MX",
	"status_code": "200",
	"gross_amount": "38.00",
	"signature_key": "deadbeef",
	"transaction_id": "txn-123",
	"transaction_status": "settlement",
	"payment_type": "bank_transfer"
}`

func postNotification(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/midtrans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMidtransNotificationProcessed(t *testing.T) {
	svc := &stubWebhookService{}
	guard := &stubGuard{}

	rec := postNotification(webhookcontrollers.MidtransNotification(svc, guard, nil), notificationBody)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.seen, 1)
	assert.Equal(t, "ORD/20260901/7KQ2MX", svc.seen[0].OrderID)
	assert.Equal(t, []string{"txn-123:settlement"}, guard.marked)
	assert.Empty(t, guard.released)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	require.Len(t, svc.rawSeen, 1)
	assert.Equal(t, notificationBody, string(svc.rawSeen[0]))
}

func TestMidtransNotificationForgedSignatureNeverMarksGuard(t *testing.T) {
	svc := &stubWebhookService{badSig: true}
	guard := &stubGuard{}

	rec := postNotification(webhookcontrollers.MidtransNotification(svc, guard, nil), notificationBody)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, guard.marked)
	assert.Empty(t, svc.seen)
}

func TestMidtransNotificationRedeliveryShortCircuits(t *testing.T) {
	svc := &stubWebhookService{}
	guard := &stubGuard{processed: true}

	rec := postNotification(webhookcontrollers.MidtransNotification(svc, guard, nil), notificationBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.seen)
}

func TestMidtransNotificationReleasesGuardOnFailure(t *testing.T) {
	svc := &stubWebhookService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	guard := &stubGuard{}

	rec := postNotification(webhookcontrollers.MidtransNotification(svc, guard, nil), notificationBody)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"txn-123:settlement"}, guard.released)
}

func TestMidtransNotificationInvalidSignatureStatus(t *testing.T) {
	svc := &stubWebhookService{err: pkgerrors.New(pkgerrors.CodeInvalidSignature, "signature mismatch")}
	guard := &stubGuard{}

	rec := postNotification(webhookcontrollers.MidtransNotification(svc, guard, nil), notificationBody)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMidtransNotificationRejectsMalformedPayload(t *testing.T) {
	svc := &stubWebhookService{}
	guard := &stubGuard{}

	rec := postNotification(webhookcontrollers.MidtransNotification(svc, guard, nil), "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, guard.marked)
}

func TestMidtransNotificationRequiresID(t *testing.T) {
	svc := &stubWebhookService{}
	guard := &stubGuard{}

	rec := postNotification(webhookcontrollers.MidtransNotification(svc, guard, nil), `{"transaction_status":"settlement"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, guard.marked)
}

func TestMidtransPing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/midtrans", nil)
	rec := httptest.NewRecorder()
	webhookcontrollers.MidtransPing().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
