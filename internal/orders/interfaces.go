package orders

import (
	"context"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/bayuwidodo/belanja-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines read and reconcile operations over order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByNumberAndCustomer(ctx context.Context, orderNumber string, customerID uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, string, error)
	FindLatestTransaction(ctx context.Context, orderID uuid.UUID) (*models.PaymentTransaction, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	UpdateTransaction(ctx context.Context, txnID uuid.UUID, updates map[string]any) error
}

// Service exposes customer-facing order reads.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*List, error)
	Get(ctx context.Context, customerID uuid.UUID, orderNumber string) (*Detail, error)
}
