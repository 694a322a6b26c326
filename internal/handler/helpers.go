package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/configurator"
	"github.com/woodcraft-pdl/storefront/internal/order"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondWithValidationErrors(w http.ResponseWriter, err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}

	details := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		details[fieldError.Field()] = fmt.Sprintf("failed on the %q rule", fieldError.Tag())
	}
	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
	return true
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrWoodTypeNotFound),
		errors.Is(err, catalog.ErrFinishNotFound),
		errors.Is(err, catalog.ErrCostSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidStatusTransition),
		errors.Is(err, order.ErrPaymentFlagInvariant):
		return http.StatusConflict
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, configurator.ErrUnknownFurnitureType),
		errors.Is(err, configurator.ErrIncompleteSelection),
		errors.Is(err, configurator.ErrDimensionsOutOfBounds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
