package checkout

import (
	"context"
	"errors"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockConflict is returned when a guarded stock decrement matches no
// row, meaning a concurrent checkout won the remaining stock.
var ErrStockConflict = errors.New("insufficient stock at commit time")

type repository struct {
	db *gorm.DB
}

// NewRepository builds a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreatePaymentTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// DecrementStock applies the guarded stock decrement and sales-count
// increment. The WHERE clause re-checks availability so a concurrent
// checkout can never drive stock negative; a zero row count aborts the
// surrounding transaction.
func (r *repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Updates(map[string]any{
			"stock":       gorm.Expr("stock - ?", qty),
			"sales_count": gorm.Expr("sales_count + ?", qty),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (r *repository) FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ?", customerID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}
