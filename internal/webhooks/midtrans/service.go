package midtranswebhook

import (
	"context"
	"errors"
	"time"

	"github.com/bayuwidodo/belanja-backend/internal/orders"
	"github.com/bayuwidodo/belanja-backend/pkg/enums"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/bayuwidodo/belanja-backend/pkg/logger"
	"github.com/bayuwidodo/belanja-backend/pkg/metrics"
	"github.com/bayuwidodo/belanja-backend/pkg/midtrans"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the reconciler's dependencies.
type ServiceParams struct {
	OrdersRepo        orders.Repository
	TransactionRunner txRunner
	ServerKey         string
	Logger            *logger.Logger
	Metrics           *metrics.CheckoutMetrics
	Now               func() time.Time
}

// Service reconciles provider payment notifications into order state.
type Service struct {
	ordersRepo orders.Repository
	txRunner   txRunner
	serverKey  string
	logg       *logger.Logger
	metrics    *metrics.CheckoutMetrics
	now        func() time.Time
}

// NewService builds the webhook reconciler.
func NewService(params ServiceParams) (*Service, error) {
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.ServerKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "server key required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		ordersRepo: params.OrdersRepo,
		txRunner:   params.TransactionRunner,
		serverKey:  params.ServerKey,
		logg:       params.Logger,
		metrics:    params.Metrics,
		now:        now,
	}, nil
}

// MapTransactionStatus translates the provider's transaction vocabulary
// into the internal payment state machine. Unknown statuses map to
// PENDING, which the reconciler treats as a no-op.
func MapTransactionStatus(status string) enums.PaymentStatus {
	switch status {
	case "capture", "settlement":
		return enums.PaymentStatusPaid
	case "deny", "cancel", "expire", "failure":
		return enums.PaymentStatusFailed
	case "refund", "partial_refund":
		return enums.PaymentStatusRefunded
	default:
		return enums.PaymentStatusPending
	}
}

// VerifySignature reports whether the notification carries a valid
// provider signature for this merchant's server key. It records rejected
// deliveries so forged traffic shows up in the webhook metrics.
func (s *Service) VerifySignature(n midtrans.Notification) bool {
	if !midtrans.VerifySignature(n, s.serverKey) {
		s.metrics.IncWebhook("invalid_signature")
		return false
	}
	return true
}

// HandleNotification applies one provider notification. raw is the request
// body as delivered and is persisted verbatim on the payment transaction,
// so provider fields outside the typed struct survive for audit.
// Re-delivery is safe: re-applying the same mapped status overwrites
// identical fields and nothing else. Once a payment reaches a terminal
// state a stale notification cannot drag it back to PENDING, and PAID
// never regresses to FAILED on late delivery.
func (s *Service) HandleNotification(ctx context.Context, n midtrans.Notification, raw []byte) error {
	if err := s.handle(ctx, n, raw); err != nil {
		s.metrics.IncWebhook(outcomeFor(err))
		return err
	}
	s.metrics.IncWebhook("applied")
	return nil
}

func (s *Service) handle(ctx context.Context, n midtrans.Notification, raw []byte) error {
	if n.OrderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if !midtrans.VerifySignature(n, s.serverKey) {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "notification signature mismatch")
	}

	ctx = s.logg.WithOrderNumber(ctx, n.OrderID)

	order, err := s.ordersRepo.FindByOrderNumber(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	txn, err := s.ordersRepo.FindLatestTransaction(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment transaction")
	}

	mapped := MapTransactionStatus(n.TransactionStatus)
	if mapped == enums.PaymentStatusPending {
		// Unknown or transitional provider status: leave state alone.
		s.logg.Info(ctx, "webhook status ignored")
		return nil
	}
	if mapped != order.PaymentStatus && !transitionAllowed(order.PaymentStatus, mapped) {
		// Stale or contradictory notification for an already-settled
		// payment. Logged and dropped; never regress a terminal state.
		s.logg.Warn(ctx, "webhook for terminal payment status dropped")
		return nil
	}

	if len(raw) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "raw notification payload missing")
	}

	txnUpdates := map[string]any{
		"status":      mapped,
		"raw_payload": raw,
	}
	if n.TransactionID != "" {
		txnUpdates["provider_tx_id"] = n.TransactionID
	}
	if n.PaymentType != "" {
		txnUpdates["payment_type"] = n.PaymentType
	}
	if number, bank := n.VANumber(); number != "" {
		txnUpdates["va_number"] = number
		txnUpdates["va_bank"] = bank
	}
	if n.QRString != "" {
		txnUpdates["qr_string"] = n.QRString
	}
	if n.QRURL != "" {
		txnUpdates["qr_url"] = n.QRURL
	}
	if redirect := n.RedirectURL(); redirect != "" {
		txnUpdates["redirect_url"] = redirect
	}

	orderUpdates := map[string]any{
		"payment_status": mapped,
	}
	if n.TransactionID != "" {
		orderUpdates["transaction_id"] = n.TransactionID
	}
	if mapped == enums.PaymentStatusPaid {
		orderUpdates["status"] = enums.OrderStatusPaid
		if order.PaidAt == nil {
			orderUpdates["paid_at"] = s.now()
		}
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		if err := repo.UpdateTransaction(ctx, txn.ID, txnUpdates); err != nil {
			return err
		}
		return repo.UpdateOrder(ctx, order.ID, orderUpdates)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying notification")
	}

	s.logg.Info(s.logg.WithField(ctx, "payment_status", mapped.String()), "payment status reconciled")
	return nil
}

// transitionAllowed is the monotonic payment state machine: PENDING can
// move anywhere, a paid order can still be refunded, and nothing else
// changes once terminal.
func transitionAllowed(from, to enums.PaymentStatus) bool {
	switch from {
	case enums.PaymentStatusPending:
		return true
	case enums.PaymentStatusPaid:
		return to == enums.PaymentStatusRefunded
	default:
		return false
	}
}

func outcomeFor(err error) string {
	if appErr := pkgerrors.As(err); appErr != nil {
		switch appErr.Code() {
		case pkgerrors.CodeInvalidSignature:
			return "invalid_signature"
		case pkgerrors.CodeNotFound:
			return "not_found"
		}
	}
	return "error"
}
