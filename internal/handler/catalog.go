package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
)

// CatalogHandler serves the read-only reference data: wood types, finishes,
// extras, products, and the active cost sheet.
type CatalogHandler struct {
	repo catalog.Repository
}

func NewCatalogHandler(repo catalog.Repository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

func (h *CatalogHandler) RegisterRoutes(router chi.Router) {
	router.Get("/catalog/wood-types", h.handleListWoodTypes)
	router.Get("/catalog/finishes", h.handleListFinishes)
	router.Get("/catalog/extras", h.handleListExtras)
	router.Get("/catalog/products", h.handleListProducts)
	router.Get("/catalog/products/{id}", h.handleGetProduct)
	router.Get("/catalog/cost-sheet", h.handleGetCostSheet)
}

func (h *CatalogHandler) handleListWoodTypes(w http.ResponseWriter, r *http.Request) {
	woodTypes, err := h.repo.ListWoodTypes(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list wood types")
		respondWithError(w, http.StatusInternalServerError, "Failed to list wood types")
		return
	}

	respondWithJSON(w, http.StatusOK, woodTypes)
}

func (h *CatalogHandler) handleListFinishes(w http.ResponseWriter, r *http.Request) {
	finishes, err := h.repo.ListFinishes(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list finishes")
		respondWithError(w, http.StatusInternalServerError, "Failed to list finishes")
		return
	}

	respondWithJSON(w, http.StatusOK, finishes)
}

func (h *CatalogHandler) handleListExtras(w http.ResponseWriter, r *http.Request) {
	extras, err := h.repo.ListExtras(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list extras")
		respondWithError(w, http.StatusInternalServerError, "Failed to list extras")
		return
	}

	respondWithJSON(w, http.StatusOK, extras)
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ProductFilter{
		Category:     catalog.FurnitureCategory(r.URL.Query().Get("category")),
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
	}

	products, err := h.repo.ListProducts(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	productID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("product_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	product, err := h.repo.GetProductByID(r.Context(), productID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get product by id")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get product")
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) handleGetCostSheet(w http.ResponseWriter, r *http.Request) {
	costSheet, err := h.repo.GetActiveCostSheet(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get active cost sheet")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get cost sheet")
		return
	}

	respondWithJSON(w, http.StatusOK, costSheet)
}
