package checkout

import (
	"context"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the checkout commit path.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	CreatePaymentTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	FindAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.ShippingAddress, error)
}
