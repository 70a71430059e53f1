package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  price NUMERIC NOT NULL,
  sale_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  sales_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  variant_name TEXT,
  variant_color TEXT,
  variant_size TEXT,
  variant_image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, price string, stock int, active bool) models.Product {
	t.Helper()

	product := models.Product{
		ID:       uuid.New(),
		Name:     "Product " + uuid.NewString()[:8],
		Slug:     "product-" + uuid.NewString()[:8],
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: active,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	view, err := svc.GetCart(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
}

func TestAddItemCreatesLine(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "19.99", 10, true)
	customerID := uuid.New()

	view, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Items[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("39.98")))
}

func TestAddItemMergesSameVariant(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "10", 10, true)
	customerID := uuid.New()
	variant := "Red"

	_, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID, Quantity: 2, VariantName: &variant,
	})
	require.NoError(t, err)

	view, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID, Quantity: 3, VariantName: &variant,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestAddItemKeepsDistinctVariantsSeparate(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "10", 10, true)
	customerID := uuid.New()
	red := "Red"

	_, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID, Quantity: 1, VariantName: &red,
	})
	require.NoError(t, err)

	view, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "10", 10, false)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{
		ProductID: product.ID, Quantity: 1,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeProductUnavailable, appErr.Code())
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{
		ProductID: uuid.New(), Quantity: 1,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestAddItemQuantityBounds(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "10", 10, true)

	for _, qty := range []int{0, -1, MaxQuantityPerLine + 1} {
		_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{
			ProductID: product.ID, Quantity: qty,
		})
		require.Error(t, err, "quantity %d", qty)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "10", 10, true)
	customerID := uuid.New()

	view, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID, Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	view, err = svc.UpdateItem(context.Background(), customerID, view.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestUpdateItemUnknownLine(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	_, err := svc.UpdateItem(context.Background(), uuid.New(), uuid.New(), 2)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRemoveItem(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "10", 10, true)
	customerID := uuid.New()

	view, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID, Quantity: 2,
	})
	require.NoError(t, err)

	view, err = svc.RemoveItem(context.Background(), customerID, view.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestViewUsesSalePriceWhenLower(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedProduct(t, db, "20", 10, true)
	sale := decimal.RequireFromString("15")
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("sale_price", sale).Error)
	customerID := uuid.New()

	view, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: product.ID, Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].UnitPrice.Equal(sale))
}
