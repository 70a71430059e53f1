package orders

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/bayuwidodo/belanja-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type service struct {
	repo Repository
}

// NewService builds the customer-facing order read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*List, error) {
	rows, next, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	list := &List{
		Orders:     make([]Summary, 0, len(rows)),
		NextCursor: next,
	}
	for _, row := range rows {
		list.Orders = append(list.Orders, newSummary(row))
	}
	return list, nil
}

// Get returns the order detail, scoped to the requesting customer. A
// PENDING payment status is a legitimate state here, not an error; the
// customer polls this view while the webhook converges.
func (s *service) Get(ctx context.Context, customerID uuid.UUID, orderNumber string) (*Detail, error) {
	order, err := s.repo.FindByNumberAndCustomer(ctx, orderNumber, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return newDetail(order), nil
}
