package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/woodcraft-pdl/storefront/internal/cart"
	"github.com/woodcraft-pdl/storefront/internal/order"
)

type CheckoutRequest struct {
	CartID        string `json:"cart_id" validate:"required"`
	UserID        string `json:"user_id" validate:"required,uuid4"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	Country       string `json:"country"`
	Notes         string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler exposes checkout and the order lifecycle endpoints.
type OrderHandler struct {
	service   order.Service
	cartStore cart.Store
	validate  *validator.Validate
}

func NewOrderHandler(service order.Service, cartStore cart.Store) *OrderHandler {
	return &OrderHandler{
		service:   service,
		cartStore: cartStore,
		validate:  validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/checkout", h.handleCheckout)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Patch("/orders/{id}/status", h.handleUpdateOrderStatus)
	router.Post("/orders/{id}/balance-payment", h.handleBalancePayment)
	router.Get("/users/{userID}/orders", h.handleGetUserOrders)
}

// handleCheckout turns the session cart into a persisted order bundle. The
// cart is cleared only after the order committed; on any failure it stays
// intact so the buyer can retry.
func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var requestPayload CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode checkout request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		if !respondWithValidationErrors(w, err) {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	userID, err := uuid.FromString(requestPayload.UserID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	sessionCart, err := cart.Load(r.Context(), h.cartStore, requestPayload.CartID)
	if err != nil {
		log.Error().Err(err).Str("cart_id", requestPayload.CartID).Msg("Failed to load cart for checkout")
		respondWithError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	createdOrder, err := h.service.Checkout(r.Context(), order.CheckoutInput{
		UserID: userID,
		Items:  sessionCart.Items(),
		Shipping: order.ShippingDetails{
			Name:       requestPayload.Name,
			Phone:      requestPayload.Phone,
			Address:    requestPayload.Address,
			City:       requestPayload.City,
			PostalCode: requestPayload.PostalCode,
			Country:    requestPayload.Country,
		},
		CustomerEmail: requestPayload.CustomerEmail,
		Notes:         requestPayload.Notes,
	})
	if err != nil {
		log.Error().Err(err).Str("cart_id", requestPayload.CartID).Msg("Checkout failed")
		respondWithError(w, mapErrorToStatusCode(err), "Checkout failed")
		return
	}

	if err := sessionCart.Clear(r.Context()); err != nil {
		log.Warn().Err(err).Str("cart_id", requestPayload.CartID).Msg("Order created but cart could not be cleared")
	}

	respondWithJSON(w, http.StatusCreated, createdOrder)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	orderID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("order_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	foundOrder, err := h.service.GetOrderByID(r.Context(), orderID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("Failed to get order by id")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, foundOrder)
}

func (h *OrderHandler) handleGetUserOrders(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "userID")
	userID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("user_id", idParam).Msg("Failed to parse userID parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid userID parameter")
		return
	}

	orders, err := h.service.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get user orders")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get user orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	orderID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("order_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var requestPayload UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode status update request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		if !respondWithValidationErrors(w, err) {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	newStatus := order.OrderStatus(requestPayload.Status)
	if !order.IsValidStatus(newStatus) {
		respondWithError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	if err := h.service.UpdateOrderStatus(r.Context(), orderID, newStatus); err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("Failed to update order status")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update order status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) handleBalancePayment(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	orderID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("order_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.MarkBalancePaid(r.Context(), orderID); err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("Failed to record balance payment")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to record balance payment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
