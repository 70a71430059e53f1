package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bayuwidodo/belanja-backend/internal/cart"
	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/bayuwidodo/belanja-backend/pkg/enums"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/bayuwidodo/belanja-backend/pkg/logger"
	"github.com/bayuwidodo/belanja-backend/pkg/metrics"
	"github.com/bayuwidodo/belanja-backend/pkg/midtrans"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type charger interface {
	Charge(ctx context.Context, req midtrans.ChargeRequest) (*midtrans.ChargeResult, error)
}

// Service executes the checkout pipeline: snapshot, validate, price,
// generate number, establish payment intent, commit.
type Service interface {
	Validate(ctx context.Context, customerID uuid.UUID) (*ValidationReport, error)
	Checkout(ctx context.Context, customerID uuid.UUID, input Input) (*models.Order, error)
}

type service struct {
	tx       txRunner
	cartRepo cart.Repository
	repo     Repository
	payments charger
	policy   Policy
	attempts int
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.Repository,
	repo Repository,
	payments charger,
	policy Policy,
	attempts int,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment charger required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if attempts <= 0 {
		attempts = 10
	}
	return &service{
		tx:       tx,
		cartRepo: cartRepo,
		repo:     repo,
		payments: payments,
		policy:   policy,
		attempts: attempts,
		logg:     logg,
		metrics:  checkoutMetrics,
		now:      time.Now,
	}, nil
}

// Validate runs the pre-flight pass: same snapshot, validator, and pricing
// as Checkout, but creates nothing.
func (s *service) Validate(ctx context.Context, customerID uuid.UUID) (*ValidationReport, error) {
	items, err := s.snapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}

	failures := ValidateLines(items)
	if len(failures) > 0 {
		return &ValidationReport{Valid: false, Errors: failures}, nil
	}

	quote, err := Price(items, s.policy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing cart")
	}
	return &ValidationReport{Valid: true, Summary: newQuoteView(quote)}, nil
}

func (s *service) Checkout(ctx context.Context, customerID uuid.UUID, input Input) (*models.Order, error) {
	started := s.now()
	order, err := s.checkout(ctx, customerID, input)
	if err != nil {
		s.metrics.ObserveCheckout(outcomeFor(err), s.now().Sub(started))
		return nil, err
	}
	s.metrics.ObserveCheckout("success", s.now().Sub(started))
	return order, nil
}

func (s *service) checkout(ctx context.Context, customerID uuid.UUID, input Input) (*models.Order, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	items, err := s.snapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if failures := ValidateLines(items); len(failures) > 0 {
		return nil, failuresError(failures)
	}

	customer, err := s.repo.FindCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}

	address, err := s.repo.FindAddress(ctx, customerID, input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidAddress, "shipping address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shipping address")
	}

	quote, err := Price(items, s.policy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing cart")
	}

	orderNumber, err := generateOrderNumber(ctx, s.now(), s.attempts, s.repo.OrderNumberExists)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithOrderNumber(ctx, orderNumber)

	// Payment intent precedes any database write. An order with no
	// payment path is unrecoverable, so provider failure aborts the
	// whole checkout with the cart untouched.
	intent, err := s.payments.Charge(ctx, buildChargeRequest(orderNumber, quote, input, customer, address))
	if err != nil {
		s.logg.Error(ctx, "payment intent failed", err)
		return nil, err
	}

	order, err := s.commit(ctx, customerID, input, quote, orderNumber, customer, address, intent)
	if err != nil {
		s.logg.Error(ctx, "order commit failed", err)
		return nil, err
	}

	s.logg.Info(s.logg.WithCustomerID(ctx, customerID.String()), "order created")
	return order, nil
}

// commit runs every write of the order commit inside one transaction: order +
// line snapshots + payment transaction + guarded stock decrements + cart
// clear. All or nothing.
func (s *service) commit(
	ctx context.Context,
	customerID uuid.UUID,
	input Input,
	quote *Quote,
	orderNumber string,
	customer *models.Customer,
	address *models.ShippingAddress,
	intent *midtrans.ChargeResult,
) (*models.Order, error) {
	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		cartRecord, err := cartRepo.FindByCustomer(ctx, customerID)
		if err != nil {
			return fmt.Errorf("reloading cart: %w", err)
		}

		order := &models.Order{
			ID:             uuid.New(),
			OrderNumber:    orderNumber,
			CustomerID:     customerID,
			Status:         enums.OrderStatusPending,
			PaymentStatus:  enums.PaymentStatusPending,
			PaymentMethod:  input.PaymentMethod,
			PaymentChannel: input.PaymentChannel,
			TransactionID:  strPtrOrNil(intent.TransactionID),
			Subtotal:       quote.Subtotal.Round(2),
			Tax:            quote.Tax,
			ShippingCost:   quote.ShippingCost,
			Discount:       quote.Discount,
			Total:          quote.Total,
			ShipRecipient:  address.Recipient,
			ShipPhone:      address.Phone,
			ShipStreet:     address.Street,
			ShipCity:       address.City,
			ShipProvince:   address.Province,
			ShipPostalCode: address.PostalCode,
			Notes:          input.Notes,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		orderItems := make([]models.OrderItem, 0, len(quote.Lines))
		for _, line := range quote.Lines {
			orderItems = append(orderItems, models.OrderItem{
				ID:           uuid.New(),
				OrderID:      order.ID,
				ProductID:    line.ProductID,
				ProductName:  line.ProductName,
				VariantName:  line.VariantName,
				VariantColor: line.VariantColor,
				VariantSize:  line.VariantSize,
				VariantImage: line.VariantImage,
				UnitPrice:    line.UnitPrice.Round(2),
				Quantity:     line.Quantity,
				LineTotal:    line.LineTotal.Round(2),
			})
		}
		if err := repo.CreateOrderItems(ctx, orderItems); err != nil {
			return fmt.Errorf("creating order items: %w", err)
		}

		txn := &models.PaymentTransaction{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProviderTxID: intent.TransactionID,
			Status:       enums.PaymentStatusPending,
			GrossAmount:  quote.Total,
			PaymentType:  intent.PaymentType,
			VANumber:     intent.VANumber,
			VABank:       intent.VABank,
			QRString:     intent.QRString,
			QRURL:        intent.QRURL,
			RedirectURL:  intent.RedirectURL,
			ExpiresAt:    intent.ExpiresAt,
			RawPayload:   intent.RawPayload,
		}
		if _, err := repo.CreatePaymentTransaction(ctx, txn); err != nil {
			return fmt.Errorf("creating payment transaction: %w", err)
		}

		for _, line := range quote.Lines {
			if err := repo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, ErrStockConflict) {
					return pkgerrors.New(pkgerrors.CodeInsufficientStock, "stock changed during checkout").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return fmt.Errorf("decrementing stock: %w", err)
			}
		}

		if err := cartRepo.ClearItems(ctx, cartRecord.ID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}

		order.Items = orderItems
		order.Transactions = []models.PaymentTransaction{*txn}
		created = order
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCommitFailed, err, "failed to create order")
	}
	return created, nil
}

func (s *service) snapshot(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	cartRecord, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(cartRecord.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}
	return cartRecord.Items, nil
}

func buildChargeRequest(
	orderNumber string,
	quote *Quote,
	input Input,
	customer *models.Customer,
	address *models.ShippingAddress,
) midtrans.ChargeRequest {
	req := midtrans.ChargeRequest{
		PaymentType: providerPaymentType(input),
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     orderNumber,
			GrossAmount: quote.GrossAmount,
		},
		ItemDetails: quote.ProviderItems,
		CustomerDetails: midtrans.CustomerDetails{
			FirstName: customer.FirstName,
			LastName:  customer.LastName,
			Email:     customer.Email,
			ShippingAddress: &midtrans.Address{
				FirstName:  address.Recipient,
				Phone:      address.Phone,
				Address:    address.Street,
				City:       address.City,
				PostalCode: address.PostalCode,
			},
		},
	}
	if customer.Phone != nil {
		req.CustomerDetails.Phone = *customer.Phone
	}
	if input.PaymentMethod == enums.PaymentMethodBankTransfer {
		bank := "bca"
		if input.PaymentChannel != nil && *input.PaymentChannel != "" {
			bank = strings.ToLower(*input.PaymentChannel)
		}
		req.BankTransfer = &midtrans.BankTransferDetail{Bank: bank}
	}
	return req
}

func providerPaymentType(input Input) string {
	switch input.PaymentMethod {
	case enums.PaymentMethodQRIS:
		return "qris"
	case enums.PaymentMethodEWallet:
		return "gopay"
	default:
		return "bank_transfer"
	}
}

func outcomeFor(err error) string {
	if appErr := pkgerrors.As(err); appErr != nil {
		return strings.ToLower(string(appErr.Code()))
	}
	return "error"
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
