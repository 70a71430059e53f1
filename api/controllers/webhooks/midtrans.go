package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bayuwidodo/belanja-backend/api/responses"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/bayuwidodo/belanja-backend/pkg/logger"
	"github.com/bayuwidodo/belanja-backend/pkg/midtrans"
)

const maxNotificationBytes = 1 << 20

type midtransWebhookService interface {
	VerifySignature(n midtrans.Notification) bool
	HandleNotification(ctx context.Context, n midtrans.Notification, raw []byte) error
}

type midtransWebhookGuard interface {
	CheckAndMark(ctx context.Context, notificationID string) (bool, error)
	Release(ctx context.Context, notificationID string) error
}

// MidtransNotification ingests Midtrans HTTP notifications. The signature
// is verified before the replay guard is touched, so a forged request can
// never mark a delivery as processed and starve the real one.
func MidtransNotification(svc midtransWebhookService, guard midtransWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxNotificationBytes))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		var notification midtrans.Notification
		if err := json.Unmarshal(payload, &notification); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification payload"))
			return
		}

		// The transaction id dedupes redeliveries; fall back to the order
		// id for providers that omit it on some notification types.
		notificationID := notification.TransactionID
		if notificationID == "" {
			notificationID = notification.OrderID
		}
		if notificationID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "notification id missing"))
			return
		}
		if !svc.VerifySignature(notification) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInvalidSignature, "notification signature mismatch"))
			return
		}
		dedupeKey := notificationID + ":" + notification.TransactionStatus

		alreadyProcessed, err := guard.CheckAndMark(ctx, dedupeKey)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteAccepted(w)
			return
		}

		if err := svc.HandleNotification(ctx, notification, payload); err != nil {
			_ = guard.Release(ctx, dedupeKey)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithOrderNumber(ctx, notification.OrderID)
			logg.Info(ctx, "midtrans notification processed")
		}
		responses.WriteAccepted(w)
	}
}

// MidtransPing answers provider liveness probes against the notification URL.
func MidtransPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteAccepted(w)
	}
}
