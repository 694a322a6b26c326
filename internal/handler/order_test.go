package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/woodcraft-pdl/storefront/internal/cart"
	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/order"
)

type mockOrderService struct {
	checkoutFunc          func(ctx context.Context, input order.CheckoutInput) (*order.Order, error)
	getOrderByIDFunc      func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	getOrdersByUserIDFunc func(ctx context.Context, userID uuid.UUID) ([]order.Order, error)
	updateStatusFunc      func(ctx context.Context, orderID uuid.UUID, newStatus order.OrderStatus) error
	markBalancePaidFunc   func(ctx context.Context, orderID uuid.UUID) error
}

func (m *mockOrderService) Checkout(ctx context.Context, input order.CheckoutInput) (*order.Order, error) {
	return m.checkoutFunc(ctx, input)
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return m.getOrderByIDFunc(ctx, id)
}

func (m *mockOrderService) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	return m.getOrdersByUserIDFunc(ctx, userID)
}

func (m *mockOrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.OrderStatus) error {
	return m.updateStatusFunc(ctx, orderID, newStatus)
}

func (m *mockOrderService) MarkBalancePaid(ctx context.Context, orderID uuid.UUID) error {
	return m.markBalancePaidFunc(ctx, orderID)
}

func newOrderRouter(svc order.Service, store cart.Store) *chi.Mux {
	r := chi.NewRouter()
	NewOrderHandler(svc, store).RegisterRoutes(r)
	return r
}

func seedCart(t *testing.T, store cart.Store, cartID string) {
	t.Helper()
	c, err := cart.Load(context.Background(), store, cartID)
	assert.NoError(t, err)
	productID, _ := uuid.NewV4()
	_, err = c.AddStandard(context.Background(), catalog.Product{ID: productID, Name: "Mesa", BasePrice: 100}, 2)
	assert.NoError(t, err)
}

func checkoutBody(cartID string) string {
	return fmt.Sprintf(`{
		"cart_id": %q,
		"user_id": "123e4567-e89b-42d3-a456-426614174000",
		"customer_email": "maria@example.com",
		"name": "María García",
		"phone": "+351 912 345 678",
		"address": "Rua das Flores 12",
		"city": "Ponta Delgada",
		"postal_code": "9500-063"
	}`, cartID)
}

func TestOrderHandler_Checkout(t *testing.T) {
	store := cart.NewMemoryStore()
	seedCart(t, store, "session-1")

	orderID, _ := uuid.NewV4()
	var capturedInput order.CheckoutInput
	svc := &mockOrderService{
		checkoutFunc: func(ctx context.Context, input order.CheckoutInput) (*order.Order, error) {
			capturedInput = input
			return &order.Order{ID: orderID, OrderNumber: "WC-1700000000000", Status: order.StatusDepositPaid}, nil
		},
	}

	router := newOrderRouter(svc, store)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(checkoutBody("session-1")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, capturedInput.Items, 1)
	assert.Equal(t, "maria@example.com", capturedInput.CustomerEmail)

	var response order.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, orderID, response.ID)

	// Successful checkout empties the cart.
	reloaded, err := cart.Load(context.Background(), store, "session-1")
	assert.NoError(t, err)
	assert.Empty(t, reloaded.Items())
}

func TestOrderHandler_CheckoutEmptyCart(t *testing.T) {
	store := cart.NewMemoryStore()
	svc := &mockOrderService{
		checkoutFunc: func(ctx context.Context, input order.CheckoutInput) (*order.Order, error) {
			return nil, order.ErrEmptyCart
		},
	}

	router := newOrderRouter(svc, store)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(checkoutBody("session-1")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_CheckoutValidation(t *testing.T) {
	store := cart.NewMemoryStore()
	svc := &mockOrderService{}

	router := newOrderRouter(svc, store)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(`{"cart_id": "session-1"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ValidationErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Validation failed", response.Error)
	assert.Contains(t, response.Details, "UserID")
}

func TestOrderHandler_CheckoutServiceFailureKeepsCart(t *testing.T) {
	store := cart.NewMemoryStore()
	seedCart(t, store, "session-1")

	svc := &mockOrderService{
		checkoutFunc: func(ctx context.Context, input order.CheckoutInput) (*order.Order, error) {
			return nil, fmt.Errorf("service: failed to create order")
		},
	}

	router := newOrderRouter(svc, store)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(checkoutBody("session-1")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	reloaded, err := cart.Load(context.Background(), store, "session-1")
	assert.NoError(t, err)
	assert.Len(t, reloaded.Items(), 1)
}

func TestOrderHandler_GetOrder(t *testing.T) {
	orderID, _ := uuid.NewV4()

	tests := []struct {
		name           string
		id             string
		getByIDFunc    func(ctx context.Context, id uuid.UUID) (*order.Order, error)
		expectedStatus int
	}{
		{
			name: "success",
			id:   orderID.String(),
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*order.Order, error) {
				return &order.Order{ID: id, OrderNumber: "WC-1700000000000", Status: order.StatusDepositPaid}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not_found",
			id:   orderID.String(),
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid_id",
			id:             "not-a-uuid",
			getByIDFunc:    nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{getOrderByIDFunc: tt.getByIDFunc}
			router := newOrderRouter(svc, cart.NewMemoryStore())

			req := httptest.NewRequest(http.MethodGet, "/orders/"+tt.id, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	orderID, _ := uuid.NewV4()

	tests := []struct {
		name             string
		body             string
		updateStatusFunc func(ctx context.Context, id uuid.UUID, newStatus order.OrderStatus) error
		expectedStatus   int
	}{
		{
			name: "success",
			body: `{"status": "in_production"}`,
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.OrderStatus) error {
				return nil
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "invalid_transition",
			body: `{"status": "delivered"}`,
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.OrderStatus) error {
				return order.ErrInvalidStatusTransition
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown_status",
			body:           `{"status": "shipped"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing_status",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{updateStatusFunc: tt.updateStatusFunc}
			router := newOrderRouter(svc, cart.NewMemoryStore())

			req := httptest.NewRequest(http.MethodPatch, "/orders/"+orderID.String()+"/status", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOrderHandler_BalancePayment(t *testing.T) {
	orderID, _ := uuid.NewV4()

	tests := []struct {
		name            string
		markBalanceFunc func(ctx context.Context, id uuid.UUID) error
		expectedStatus  int
	}{
		{
			name:            "success",
			markBalanceFunc: func(ctx context.Context, id uuid.UUID) error { return nil },
			expectedStatus:  http.StatusNoContent,
		},
		{
			name:            "too_early",
			markBalanceFunc: func(ctx context.Context, id uuid.UUID) error { return order.ErrPaymentFlagInvariant },
			expectedStatus:  http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{markBalancePaidFunc: tt.markBalanceFunc}
			router := newOrderRouter(svc, cart.NewMemoryStore())

			req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/balance-payment", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOrderHandler_GetUserOrders(t *testing.T) {
	userID, _ := uuid.NewV4()
	svc := &mockOrderService{
		getOrdersByUserIDFunc: func(ctx context.Context, id uuid.UUID) ([]order.Order, error) {
			return []order.Order{{UserID: id, Status: order.StatusDelivered}}, nil
		},
	}
	router := newOrderRouter(svc, cart.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []order.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, userID, response[0].UserID)
}
