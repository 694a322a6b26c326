package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/woodcraft-pdl/storefront/internal/cart"
	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/configurator"
	"github.com/woodcraft-pdl/storefront/internal/pricing"
)

type AddStandardItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type AddCustomItemRequest struct {
	FurnitureType string   `json:"furniture_type" validate:"required"`
	Length        float64  `json:"length" validate:"required,gt=0"`
	Width         float64  `json:"width" validate:"required,gt=0"`
	Height        float64  `json:"height" validate:"required,gt=0"`
	WoodTypeID    string   `json:"wood_type_id" validate:"required,uuid4"`
	FinishID      string   `json:"finish_id" validate:"required,uuid4"`
	ExtraIDs      []string `json:"extra_ids" validate:"dive,uuid4"`
	Notes         string   `json:"notes"`
}

type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartHandler manages session carts. The cart id in the URL is the client's
// session id; an unknown id behaves as an empty cart.
type CartHandler struct {
	store       cart.Store
	catalogRepo catalog.Repository
	validate    *validator.Validate
}

func NewCartHandler(store cart.Store, catalogRepo catalog.Repository) *CartHandler {
	return &CartHandler{
		store:       store,
		catalogRepo: catalogRepo,
		validate:    validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Route("/carts/{cartID}", func(r chi.Router) {
		r.Get("/", h.handleGetCart)
		r.Delete("/", h.handleClearCart)
		r.Post("/items", h.handleAddStandardItem)
		r.Post("/custom-items", h.handleAddCustomItem)
		r.Patch("/items/{itemID}", h.handleUpdateItemQuantity)
		r.Delete("/items/{itemID}", h.handleRemoveItem)
	})
}

func (h *CartHandler) loadCart(w http.ResponseWriter, r *http.Request) *cart.Cart {
	cartID := chi.URLParam(r, "cartID")
	if cartID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing cart id")
		return nil
	}

	c, err := cart.Load(r.Context(), h.store, cartID)
	if err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("Failed to load cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to load cart")
		return nil
	}
	return c
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c := h.loadCart(w, r)
	if c == nil {
		return
	}

	respondWithJSON(w, http.StatusOK, c.Summary())
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	c := h.loadCart(w, r)
	if c == nil {
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		log.Error().Err(err).Str("cart_id", c.ID()).Msg("Failed to clear cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleAddStandardItem(w http.ResponseWriter, r *http.Request) {
	var requestPayload AddStandardItemRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode add item request body")
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

	productID, err := uuid.FromString(requestPayload.ProductID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.catalogRepo.GetProductByID(r.Context(), productID)
	if err != nil {
		log.Error().Err(err).Stringer("product_id", productID).Msg("Failed to get product for cart")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get product")
		return
	}

	c := h.loadCart(w, r)
	if c == nil {
		return
	}

	if _, err := c.AddStandard(r.Context(), *product, requestPayload.Quantity); err != nil {
		log.Error().Err(err).Str("cart_id", c.ID()).Msg("Failed to add item to cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	respondWithJSON(w, http.StatusCreated, c.Summary())
}

func (h *CartHandler) handleAddCustomItem(w http.ResponseWriter, r *http.Request) {
	var requestPayload AddCustomItemRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode add custom item request body")
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

	config, err := h.buildCustomConfig(r, requestPayload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build custom configuration")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	price := pricing.Calculate(pricing.Input{
		FurnitureType: config.FurnitureType,
		Length:        config.Length,
		Width:         config.Width,
		Height:        config.Height,
		WoodType:      &config.WoodType,
		Finish:        &config.Finish,
		Extras:        config.Extras,
	})

	c := h.loadCart(w, r)
	if c == nil {
		return
	}

	if _, err := c.AddCustom(r.Context(), *config, price); err != nil {
		log.Error().Err(err).Str("cart_id", c.ID()).Msg("Failed to add custom item to cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to add custom item to cart")
		return
	}

	respondWithJSON(w, http.StatusCreated, c.Summary())
}

func (h *CartHandler) buildCustomConfig(r *http.Request, payload AddCustomItemRequest) (*configurator.CustomConfig, error) {
	ctx := r.Context()

	furnitureType := catalog.FurnitureType(payload.FurnitureType)
	dims := configurator.Dimensions{
		Length: payload.Length,
		Width:  payload.Width,
		Height: payload.Height,
	}
	if err := configurator.ValidateDimensions(furnitureType, dims); err != nil {
		return nil, err
	}

	woodTypeID, err := uuid.FromString(payload.WoodTypeID)
	if err != nil {
		return nil, err
	}
	woodType, err := h.catalogRepo.GetWoodTypeByID(ctx, woodTypeID)
	if err != nil {
		return nil, err
	}

	finishID, err := uuid.FromString(payload.FinishID)
	if err != nil {
		return nil, err
	}
	finish, err := h.catalogRepo.GetFinishByID(ctx, finishID)
	if err != nil {
		return nil, err
	}

	extraIDs := make([]uuid.UUID, 0, len(payload.ExtraIDs))
	for _, raw := range payload.ExtraIDs {
		id, err := uuid.FromString(raw)
		if err != nil {
			return nil, err
		}
		extraIDs = append(extraIDs, id)
	}
	extras, err := h.catalogRepo.GetExtrasByIDs(ctx, extraIDs)
	if err != nil {
		return nil, err
	}

	return &configurator.CustomConfig{
		FurnitureType: furnitureType,
		WoodType:      *woodType,
		Finish:        *finish,
		Length:        dims.Length,
		Width:         dims.Width,
		Height:        dims.Height,
		Extras:        extras,
		Notes:         payload.Notes,
	}, nil
}

func (h *CartHandler) handleUpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.FromString(chi.URLParam(r, "itemID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	var requestPayload UpdateItemQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode update quantity request body")
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

	c := h.loadCart(w, r)
	if c == nil {
		return
	}

	if err := c.SetQuantity(r.Context(), itemID, requestPayload.Quantity); err != nil {
		log.Error().Err(err).Str("cart_id", c.ID()).Stringer("item_id", itemID).Msg("Failed to update item quantity")
		respondWithError(w, http.StatusInternalServerError, "Failed to update item quantity")
		return
	}

	respondWithJSON(w, http.StatusOK, c.Summary())
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.FromString(chi.URLParam(r, "itemID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	c := h.loadCart(w, r)
	if c == nil {
		return
	}

	if err := c.Remove(r.Context(), itemID); err != nil {
		log.Error().Err(err).Str("cart_id", c.ID()).Stringer("item_id", itemID).Msg("Failed to remove item from cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to remove item from cart")
		return
	}

	respondWithJSON(w, http.StatusOK, c.Summary())
}
