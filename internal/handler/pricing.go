package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/configurator"
	"github.com/woodcraft-pdl/storefront/internal/pricing"
)

type QuoteRequest struct {
	FurnitureType string   `json:"furniture_type" validate:"required"`
	Length        float64  `json:"length" validate:"required,gt=0"`
	Width         float64  `json:"width" validate:"required,gt=0"`
	Height        float64  `json:"height" validate:"required,gt=0"`
	WoodTypeID    string   `json:"wood_type_id" validate:"required,uuid4"`
	FinishID      string   `json:"finish_id" validate:"required,uuid4"`
	ExtraIDs      []string `json:"extra_ids" validate:"dive,uuid4"`
}

type QuoteResponse struct {
	Quote     pricing.Quote     `json:"quote"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// PricingHandler prices custom configurations against the live catalog.
type PricingHandler struct {
	catalogRepo catalog.Repository
	validate    *validator.Validate
}

func NewPricingHandler(catalogRepo catalog.Repository) *PricingHandler {
	return &PricingHandler{
		catalogRepo: catalogRepo,
		validate:    validator.New(),
	}
}

func (h *PricingHandler) RegisterRoutes(router chi.Router) {
	router.Post("/pricing/quote", h.handleQuote)
}

func (h *PricingHandler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var requestPayload QuoteRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode quote request body")
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

	furnitureType := catalog.FurnitureType(requestPayload.FurnitureType)
	dims := configurator.Dimensions{
		Length: requestPayload.Length,
		Width:  requestPayload.Width,
		Height: requestPayload.Height,
	}
	if err := configurator.ValidateDimensions(furnitureType, dims); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := h.buildPricingInput(r, furnitureType, dims, requestPayload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve catalog references for quote")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to resolve catalog references")
		return
	}

	breakdown := pricing.Itemize(input)
	respondWithJSON(w, http.StatusOK, QuoteResponse{
		Quote:     pricing.NewQuote(breakdown.Total),
		Breakdown: breakdown,
	})
}

func (h *PricingHandler) buildPricingInput(r *http.Request, furnitureType catalog.FurnitureType, dims configurator.Dimensions, payload QuoteRequest) (pricing.Input, error) {
	ctx := r.Context()

	woodTypeID, err := uuid.FromString(payload.WoodTypeID)
	if err != nil {
		return pricing.Input{}, err
	}
	woodType, err := h.catalogRepo.GetWoodTypeByID(ctx, woodTypeID)
	if err != nil {
		return pricing.Input{}, err
	}

	finishID, err := uuid.FromString(payload.FinishID)
	if err != nil {
		return pricing.Input{}, err
	}
	finish, err := h.catalogRepo.GetFinishByID(ctx, finishID)
	if err != nil {
		return pricing.Input{}, err
	}

	extraIDs := make([]uuid.UUID, 0, len(payload.ExtraIDs))
	for _, raw := range payload.ExtraIDs {
		id, err := uuid.FromString(raw)
		if err != nil {
			return pricing.Input{}, err
		}
		extraIDs = append(extraIDs, id)
	}
	extras, err := h.catalogRepo.GetExtrasByIDs(ctx, extraIDs)
	if err != nil {
		return pricing.Input{}, err
	}

	return pricing.Input{
		FurnitureType: furnitureType,
		Length:        dims.Length,
		Width:         dims.Width,
		Height:        dims.Height,
		WoodType:      woodType,
		Finish:        finish,
		Extras:        extras,
	}, nil
}
