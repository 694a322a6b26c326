package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
)

func newCatalogRouter(repo catalog.Repository) *chi.Mux {
	r := chi.NewRouter()
	NewCatalogHandler(repo).RegisterRoutes(r)
	return r
}

func TestCatalogHandler_ListWoodTypes(t *testing.T) {
	repo := newTestCatalog(t)
	router := newCatalogRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/catalog/wood-types", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var woodTypes []catalog.WoodType
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &woodTypes))
	assert.Len(t, woodTypes, 1)
	assert.Equal(t, "Roble", woodTypes[0].Name)
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	repo := newTestCatalog(t)
	router := newCatalogRouter(repo)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{name: "success", id: repo.products[0].ID.String(), expectedStatus: http.StatusOK},
		{name: "not_found", id: mustNewUUID(t).String(), expectedStatus: http.StatusNotFound},
		{name: "invalid_id", id: "not-a-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/catalog/products/"+tt.id, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCatalogHandler_GetCostSheet(t *testing.T) {
	repo := newTestCatalog(t)
	router := newCatalogRouter(repo)

	// No active sheet yet.
	req := httptest.NewRequest(http.MethodGet, "/catalog/cost-sheet", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	sheetID := mustNewUUID(t)
	repo.costSheet = &catalog.CostSheet{ID: sheetID, Name: "Tarifa Base", LaborRatePerHour: 25, IsActive: true}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/cost-sheet", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var sheet catalog.CostSheet
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &sheet))
	assert.Equal(t, sheetID, sheet.ID)
}

func mustNewUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	assert.NoError(t, err)
	return id
}
