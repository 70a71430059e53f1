package cart

import (
	"context"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for cart tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	FindOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID, variantName *string) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// Service defines the cart operations exposed to the HTTP layer.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*View, error)
	UpdateItem(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (*View, error)
}
