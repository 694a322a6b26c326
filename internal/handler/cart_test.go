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
)

// mockCatalogRepository serves the fixtures it was constructed with.
type mockCatalogRepository struct {
	woodTypes []catalog.WoodType
	finishes  []catalog.Finish
	extras    []catalog.Extra
	products  []catalog.Product
	costSheet *catalog.CostSheet
}

func (m *mockCatalogRepository) ListWoodTypes(_ context.Context) ([]catalog.WoodType, error) {
	return m.woodTypes, nil
}

func (m *mockCatalogRepository) ListFinishes(_ context.Context) ([]catalog.Finish, error) {
	return m.finishes, nil
}

func (m *mockCatalogRepository) ListExtras(_ context.Context) ([]catalog.Extra, error) {
	return m.extras, nil
}

func (m *mockCatalogRepository) GetWoodTypeByID(_ context.Context, id uuid.UUID) (*catalog.WoodType, error) {
	for i := range m.woodTypes {
		if m.woodTypes[i].ID == id {
			return &m.woodTypes[i], nil
		}
	}
	return nil, catalog.ErrWoodTypeNotFound
}

func (m *mockCatalogRepository) GetFinishByID(_ context.Context, id uuid.UUID) (*catalog.Finish, error) {
	for i := range m.finishes {
		if m.finishes[i].ID == id {
			return &m.finishes[i], nil
		}
	}
	return nil, catalog.ErrFinishNotFound
}

func (m *mockCatalogRepository) GetExtrasByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Extra, error) {
	matched := make([]catalog.Extra, 0, len(ids))
	for _, id := range ids {
		for _, e := range m.extras {
			if e.ID == id {
				matched = append(matched, e)
			}
		}
	}
	return matched, nil
}

func (m *mockCatalogRepository) ListProducts(_ context.Context, _ catalog.ProductFilter) ([]catalog.Product, error) {
	return m.products, nil
}

func (m *mockCatalogRepository) GetProductByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (m *mockCatalogRepository) GetActiveCostSheet(_ context.Context) (*catalog.CostSheet, error) {
	if m.costSheet == nil {
		return nil, catalog.ErrCostSheetNotFound
	}
	return m.costSheet, nil
}

func newTestCatalog(t *testing.T) *mockCatalogRepository {
	t.Helper()
	woodID, _ := uuid.NewV4()
	finishID, _ := uuid.NewV4()
	extraID, _ := uuid.NewV4()
	productID, _ := uuid.NewV4()

	return &mockCatalogRepository{
		woodTypes: []catalog.WoodType{{ID: woodID, Name: "Roble", CostPerCubicMeter: 800, IsActive: true}},
		finishes:  []catalog.Finish{{ID: finishID, Name: "Laca Mate", CostPerSquareMeter: 40, IsActive: true}},
		extras:    []catalog.Extra{{ID: extraID, Name: "Cajones", BasePrice: 150, IsActive: true}},
		products: []catalog.Product{{
			ID:        productID,
			Name:      "Mesa de Comedor Roble",
			Category:  catalog.CategoryTables,
			BasePrice: 100,
			IsActive:  true,
		}},
	}
}

func newCartRouter(store cart.Store, repo catalog.Repository) *chi.Mux {
	r := chi.NewRouter()
	NewCartHandler(store, repo).RegisterRoutes(r)
	return r
}

func TestCartHandler_GetEmptyCart(t *testing.T) {
	router := newCartRouter(cart.NewMemoryStore(), newTestCatalog(t))

	req := httptest.NewRequest(http.MethodGet, "/carts/session-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary cart.Summary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "session-1", summary.CartID)
	assert.Empty(t, summary.Items)
	assert.Equal(t, 0.0, summary.Subtotal)
}

func TestCartHandler_AddStandardItem(t *testing.T) {
	repo := newTestCatalog(t)
	router := newCartRouter(cart.NewMemoryStore(), repo)

	body := fmt.Sprintf(`{"product_id": %q, "quantity": 2}`, repo.products[0].ID)
	req := httptest.NewRequest(http.MethodPost, "/carts/session-1/items", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var summary cart.Summary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 200.0, summary.Subtotal)
	assert.Equal(t, 100.0, summary.DepositAmount)
}

func TestCartHandler_AddStandardItemUnknownProduct(t *testing.T) {
	router := newCartRouter(cart.NewMemoryStore(), newTestCatalog(t))

	unknownID, _ := uuid.NewV4()
	body := fmt.Sprintf(`{"product_id": %q, "quantity": 1}`, unknownID)
	req := httptest.NewRequest(http.MethodPost, "/carts/session-1/items", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartHandler_AddStandardItemValidation(t *testing.T) {
	router := newCartRouter(cart.NewMemoryStore(), newTestCatalog(t))

	req := httptest.NewRequest(http.MethodPost, "/carts/session-1/items", bytes.NewBufferString(`{"quantity": 0}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_AddCustomItem(t *testing.T) {
	repo := newTestCatalog(t)
	router := newCartRouter(cart.NewMemoryStore(), repo)

	body := fmt.Sprintf(`{
		"furniture_type": "dining_table",
		"length": 200,
		"width": 90,
		"height": 75,
		"wood_type_id": %q,
		"finish_id": %q,
		"notes": "Esquinas redondeadas"
	}`, repo.woodTypes[0].ID, repo.finishes[0].ID)

	req := httptest.NewRequest(http.MethodPost, "/carts/session-1/custom-items", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var summary cart.Summary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, cart.ItemCustom, summary.Items[0].Type)
	assert.Equal(t, 1, summary.Items[0].Quantity)
	// Reference configuration prices at 6162.
	assert.Equal(t, 6162.0, summary.Items[0].UnitPrice)
	assert.Equal(t, 3081.0, summary.DepositAmount)
}

func TestCartHandler_AddCustomItemOutOfBounds(t *testing.T) {
	repo := newTestCatalog(t)
	router := newCartRouter(cart.NewMemoryStore(), repo)

	body := fmt.Sprintf(`{
		"furniture_type": "dining_table",
		"length": 500,
		"width": 90,
		"height": 75,
		"wood_type_id": %q,
		"finish_id": %q
	}`, repo.woodTypes[0].ID, repo.finishes[0].ID)

	req := httptest.NewRequest(http.MethodPost, "/carts/session-1/custom-items", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_UpdateItemQuantity(t *testing.T) {
	repo := newTestCatalog(t)
	store := cart.NewMemoryStore()
	router := newCartRouter(store, repo)

	c, err := cart.Load(context.Background(), store, "session-1")
	assert.NoError(t, err)
	item, err := c.AddStandard(context.Background(), repo.products[0], 1)
	assert.NoError(t, err)

	body := `{"quantity": 3}`
	req := httptest.NewRequest(http.MethodPatch, "/carts/session-1/items/"+item.ID.String(), bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary cart.Summary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 300.0, summary.Subtotal)
}

func TestCartHandler_UpdateItemQuantityToZeroRemoves(t *testing.T) {
	repo := newTestCatalog(t)
	store := cart.NewMemoryStore()
	router := newCartRouter(store, repo)

	c, err := cart.Load(context.Background(), store, "session-1")
	assert.NoError(t, err)
	item, err := c.AddStandard(context.Background(), repo.products[0], 2)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/carts/session-1/items/"+item.ID.String(), bytes.NewBufferString(`{"quantity": 0}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary cart.Summary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Empty(t, summary.Items)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	repo := newTestCatalog(t)
	store := cart.NewMemoryStore()
	router := newCartRouter(store, repo)

	c, err := cart.Load(context.Background(), store, "session-1")
	assert.NoError(t, err)
	item, err := c.AddStandard(context.Background(), repo.products[0], 1)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/carts/session-1/items/"+item.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary cart.Summary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Empty(t, summary.Items)
}

func TestCartHandler_ClearCart(t *testing.T) {
	repo := newTestCatalog(t)
	store := cart.NewMemoryStore()
	router := newCartRouter(store, repo)

	c, err := cart.Load(context.Background(), store, "session-1")
	assert.NoError(t, err)
	_, err = c.AddStandard(context.Background(), repo.products[0], 2)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/carts/session-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	reloaded, err := cart.Load(context.Background(), store, "session-1")
	assert.NoError(t, err)
	assert.Empty(t, reloaded.Items())
}
