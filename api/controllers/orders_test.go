package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayuwidodo/belanja-backend/api/controllers"
	ordersvc "github.com/bayuwidodo/belanja-backend/internal/orders"
	"github.com/bayuwidodo/belanja-backend/pkg/enums"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
	"github.com/bayuwidodo/belanja-backend/pkg/pagination"
)

type stubOrdersService struct {
	list        *ordersvc.List
	detail      *ordersvc.Detail
	err         error
	customerID  uuid.UUID
	params      pagination.Params
	orderNumber string
}

func (s *stubOrdersService) List(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ordersvc.List, error) {
	s.customerID = customerID
	s.params = params
	return s.list, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, customerID uuid.UUID, orderNumber string) (*ordersvc.Detail, error) {
	s.customerID = customerID
	s.orderNumber = orderNumber
	return s.detail, s.err
}

func ordersRouter(svc ordersvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", controllers.OrderList(svc, nil))
		r.Get("/*", controllers.OrderDetail(svc, nil))
	})
	return r
}

func TestOrderList(t *testing.T) {
	customerID := uuid.New()
	svc := &stubOrdersService{list: &ordersvc.List{
		Orders: []ordersvc.Summary{{
			OrderNumber:   "ORD/20260901/7KQ2MX",
			Status:        enums.OrderStatusPending,
			PaymentStatus: enums.PaymentStatusPending,
			Total:         decimal.RequireFromString("38"),
			TotalItems:    2,
		}},
		NextCursor: "abc",
	}}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest("GET", "/api/v1/orders?limit=5&cursor=xyz", "", customerID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, customerID, svc.customerID)
	assert.Equal(t, 5, svc.params.Limit)
	assert.Equal(t, "xyz", svc.params.Cursor)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "abc", data["next_cursor"])
}

func TestOrderListDefaultsLimit(t *testing.T) {
	svc := &stubOrdersService{list: &ordersvc.List{Orders: []ordersvc.Summary{}}}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest("GET", "/api/v1/orders", "", uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pagination.DefaultLimit, svc.params.Limit)
}

func TestOrderListRejectsBadLimit(t *testing.T) {
	svc := &stubOrdersService{}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest("GET", "/api/v1/orders?limit=nope", "", uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderDetailPassesFullOrderNumber(t *testing.T) {
	customerID := uuid.New()
	svc := &stubOrdersService{detail: &ordersvc.Detail{OrderNumber: "ORD/20260901/7KQ2MX"}}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest("GET", "/api/v1/orders/ORD/20260901/7KQ2MX", "", customerID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD/20260901/7KQ2MX", svc.orderNumber)
	assert.Equal(t, customerID, svc.customerID)
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest("GET", "/api/v1/orders/ORD/20260901/ZZZZZZ", "", uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
