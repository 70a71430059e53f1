package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxQuantityPerLine caps a single cart line; larger orders go through
// support.
const MaxQuantityPerLine = 99

type service struct {
	repo Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (*View, error) {
	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return newView(cart), nil
}

func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*View, error) {
	if input.Quantity <= 0 || input.Quantity > MaxQuantityPerLine {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range").
			WithDetails(map[string]any{"max": MaxQuantityPerLine})
	}

	product, err := s.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeProductUnavailable, "product is not available").
			WithDetails(map[string]any{"product_id": product.ID})
	}

	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	existing, err := s.repo.FindItemByProduct(ctx, cart.ID, input.ProductID, input.VariantName)
	switch {
	case err == nil:
		merged := existing.Quantity + input.Quantity
		if merged > MaxQuantityPerLine {
			merged = MaxQuantityPerLine
		}
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merging cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := models.CartItem{
			ID:           uuid.New(),
			CartID:       cart.ID,
			ProductID:    input.ProductID,
			Quantity:     input.Quantity,
			VariantName:  input.VariantName,
			VariantColor: input.VariantColor,
			VariantSize:  input.VariantSize,
			VariantImage: input.VariantImage,
		}
		if _, err := s.repo.CreateItem(ctx, &item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up cart item")
	}

	return s.GetCart(ctx, customerID)
}

func (s *service) UpdateItem(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*View, error) {
	if quantity < 0 || quantity > MaxQuantityPerLine {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range").
			WithDetails(map[string]any{"max": MaxQuantityPerLine})
	}

	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	// Quantity zero removes the line.
	if quantity == 0 {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
		}
		return s.GetCart(ctx, customerID)
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
	}
	return s.GetCart(ctx, customerID)
}

func (s *service) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (*View, error) {
	cart, err := s.repo.FindOrCreateByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return s.GetCart(ctx, customerID)
}
