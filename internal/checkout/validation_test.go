package checkout

import (
	"testing"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validatorLine(active bool, stock, qty int) models.CartItem {
	id := uuid.New()
	return models.CartItem{
		ID:        uuid.New(),
		ProductID: id,
		Quantity:  qty,
		Product: &models.Product{
			ID:       id,
			Name:     "Item",
			Price:    decimal.NewFromInt(10),
			Stock:    stock,
			IsActive: active,
		},
	}
}

func TestValidateLinesPasses(t *testing.T) {
	t.Parallel()

	failures := ValidateLines([]models.CartItem{
		validatorLine(true, 5, 5),
		validatorLine(true, 10, 1),
	})
	assert.Empty(t, failures)
}

func TestValidateLinesAccumulatesAllFailures(t *testing.T) {
	t.Parallel()

	lines := []models.CartItem{
		validatorLine(false, 5, 1),  // inactive
		validatorLine(true, 2, 3),   // short stock
		validatorLine(true, 10, 1),  // fine
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2}, // missing product row
	}

	failures := ValidateLines(lines)
	require.Len(t, failures, 3)
	assert.Equal(t, pkgerrors.CodeProductUnavailable, failures[0].Code)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, failures[1].Code)
	assert.Equal(t, 3, failures[1].Requested)
	assert.Equal(t, 2, failures[1].Available)
	assert.Equal(t, pkgerrors.CodeProductUnavailable, failures[2].Code)
}

func TestFailuresErrorCarriesDetails(t *testing.T) {
	t.Parallel()

	failures := ValidateLines([]models.CartItem{validatorLine(true, 1, 2)})
	err := failuresError(failures)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
	assert.NotNil(t, appErr.Details())
}

func TestFailuresErrorNilOnEmpty(t *testing.T) {
	t.Parallel()

	assert.NoError(t, failuresError(nil))
}
