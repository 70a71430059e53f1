package checkout

import (
	"fmt"

	"github.com/bayuwidodo/belanja-backend/pkg/db/models"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// LineFailure describes one cart line that cannot be checked out.
type LineFailure struct {
	ProductID   uuid.UUID      `json:"product_id"`
	ProductName string         `json:"product_name,omitempty"`
	Code        pkgerrors.Code `json:"code"`
	Requested   int            `json:"requested"`
	Available   int            `json:"available"`
}

// ValidateLines checks every cart line against the live product row and
// accumulates all failures instead of stopping at the first. No side
// effects; the same pass runs as the pre-flight validate operation and
// again inside the checkout flow.
func ValidateLines(items []models.CartItem) []LineFailure {
	var failures []LineFailure
	for _, item := range items {
		if item.Product == nil || !item.Product.IsActive {
			failure := LineFailure{
				ProductID: item.ProductID,
				Code:      pkgerrors.CodeProductUnavailable,
				Requested: item.Quantity,
			}
			if item.Product != nil {
				failure.ProductName = item.Product.Name
			}
			failures = append(failures, failure)
			continue
		}
		if item.Quantity > item.Product.Stock {
			failures = append(failures, LineFailure{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Code:        pkgerrors.CodeInsufficientStock,
				Requested:   item.Quantity,
				Available:   item.Product.Stock,
			})
		}
	}
	return failures
}

// failuresError folds the accumulated line failures into one typed error.
// The leading failure's code wins; the full list travels in details.
func failuresError(failures []LineFailure) error {
	if len(failures) == 0 {
		return nil
	}

	var combined error
	for _, f := range failures {
		combined = multierr.Append(combined, fmt.Errorf("%s: product %s (requested %d, available %d)",
			f.Code, f.ProductID, f.Requested, f.Available))
	}

	return pkgerrors.Wrap(failures[0].Code, combined, "cart validation failed").
		WithDetails(map[string]any{"failures": failures})
}
