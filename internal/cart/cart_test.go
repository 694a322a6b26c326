package cart_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/woodcraft-pdl/storefront/internal/cart"
	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/configurator"
)

func newProduct(basePrice float64) catalog.Product {
	id, _ := uuid.NewV4()
	return catalog.Product{
		ID:        id,
		Name:      "Mesa de Comedor Roble",
		Category:  catalog.CategoryTables,
		BasePrice: basePrice,
		IsActive:  true,
	}
}

func newCustomConfig() configurator.CustomConfig {
	woodID, _ := uuid.NewV4()
	finishID, _ := uuid.NewV4()
	return configurator.CustomConfig{
		FurnitureType: catalog.TypeDiningTable,
		WoodType:      catalog.WoodType{ID: woodID, Name: "Roble", CostPerCubicMeter: 800},
		Finish:        catalog.Finish{ID: finishID, Name: "Laca Mate", CostPerSquareMeter: 40},
		Length:        200,
		Width:         90,
		Height:        75,
	}
}

func loadCart(t *testing.T, store cart.Store, cartID string) *cart.Cart {
	t.Helper()
	c, err := cart.Load(context.Background(), store, cartID)
	assert.NoError(t, err)
	return c
}

func TestCart_AddStandardMergesByProduct(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")
	product := newProduct(100)

	first, err := c.AddStandard(ctx, product, 2)
	assert.NoError(t, err)

	second, err := c.AddStandard(ctx, product, 3)
	assert.NoError(t, err)

	// Same line, accumulated quantity, unchanged unit price.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, 100.0, second.UnitPrice)
	assert.Equal(t, 500.0, second.TotalPrice)
}

func TestCart_AddStandardDifferentProductsDoNotMerge(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	_, err := c.AddStandard(ctx, newProduct(100), 1)
	assert.NoError(t, err)
	_, err = c.AddStandard(ctx, newProduct(100), 1)
	assert.NoError(t, err)

	assert.Len(t, c.Items(), 2)
}

func TestCart_AddStandardInvalidQuantity(t *testing.T) {
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	_, err := c.AddStandard(context.Background(), newProduct(100), 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Empty(t, c.Items())
}

func TestCart_AddCustomNeverMerges(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")
	config := newCustomConfig()

	first, err := c.AddCustom(ctx, config, 6162)
	assert.NoError(t, err)
	second, err := c.AddCustom(ctx, config, 6162)
	assert.NoError(t, err)

	// Identical configurations still get their own lines.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, c.Items(), 2)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, 1, second.Quantity)
}

func TestCart_SetQuantity(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	item, err := c.AddStandard(ctx, newProduct(100), 1)
	assert.NoError(t, err)

	assert.NoError(t, c.SetQuantity(ctx, item.ID, 4))
	assert.Equal(t, 4, c.Items()[0].Quantity)
	assert.Equal(t, 400.0, c.Items()[0].TotalPrice)
}

func TestCart_SetQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	item, err := c.AddStandard(ctx, newProduct(100), 2)
	assert.NoError(t, err)

	assert.NoError(t, c.SetQuantity(ctx, item.ID, 0))
	assert.Empty(t, c.Items())
}

func TestCart_SetQuantityOnCustomIsNoOp(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	item, err := c.AddCustom(ctx, newCustomConfig(), 6162)
	assert.NoError(t, err)

	assert.NoError(t, c.SetQuantity(ctx, item.ID, 5))
	assert.Equal(t, 1, c.Items()[0].Quantity)
	assert.Equal(t, 6162.0, c.Items()[0].TotalPrice)
}

func TestCart_RemoveUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	_, err := c.AddStandard(ctx, newProduct(100), 1)
	assert.NoError(t, err)

	unknownID, _ := uuid.NewV4()
	assert.NoError(t, c.Remove(ctx, unknownID))
	assert.Len(t, c.Items(), 1)
}

func TestCart_Totals(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	_, err := c.AddStandard(ctx, newProduct(100), 2)
	assert.NoError(t, err)
	_, err = c.AddCustom(ctx, newCustomConfig(), 250)
	assert.NoError(t, err)

	assert.Equal(t, 3, c.ItemCount())
	assert.Equal(t, 450.0, c.Subtotal())
	assert.Equal(t, 225.0, c.DepositAmount())
	assert.Equal(t, 225.0, c.RemainingBalance())
}

func TestCart_DepositPlusRemainingEqualsSubtotal(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	_, err := c.AddStandard(ctx, newProduct(333), 1)
	assert.NoError(t, err)
	_, err = c.AddCustom(ctx, newCustomConfig(), 101)
	assert.NoError(t, err)

	assert.Equal(t, c.Subtotal(), c.DepositAmount()+c.RemainingBalance())
}

func TestCart_PersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()

	c := loadCart(t, store, "session-1")
	_, err := c.AddStandard(ctx, newProduct(100), 2)
	assert.NoError(t, err)
	_, err = c.AddCustom(ctx, newCustomConfig(), 6162)
	assert.NoError(t, err)

	reloaded := loadCart(t, store, "session-1")
	assert.Len(t, reloaded.Items(), 2)
	assert.Equal(t, c.Subtotal(), reloaded.Subtotal())

	// A different session does not see the items.
	other := loadCart(t, store, "session-2")
	assert.Empty(t, other.Items())
}

func TestCart_Clear(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()

	c := loadCart(t, store, "session-1")
	_, err := c.AddStandard(ctx, newProduct(100), 2)
	assert.NoError(t, err)

	assert.NoError(t, c.Clear(ctx))
	assert.Empty(t, c.Items())
	assert.Equal(t, 0.0, c.Subtotal())

	reloaded := loadCart(t, store, "session-1")
	assert.Empty(t, reloaded.Items())
}

func TestCart_Summary(t *testing.T) {
	ctx := context.Background()
	c := loadCart(t, cart.NewMemoryStore(), "session-1")

	_, err := c.AddStandard(ctx, newProduct(100), 2)
	assert.NoError(t, err)

	summary := c.Summary()
	assert.Equal(t, "session-1", summary.CartID)
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 200.0, summary.Subtotal)
	assert.Equal(t, 100.0, summary.DepositAmount)
	assert.Equal(t, 100.0, summary.RemainingBalance)
}
