// Package cart holds the session shopping cart: a list of standard and
// custom line items persisted through a Store on every mutation, with the
// subtotal, 50% deposit, and remaining balance derived on read.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/configurator"
)

const depositShare = 0.5

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart is one client session's cart, hydrated from the store. Mutations are
// synchronous and persist before returning; a cart is never shared between
// sessions, so no locking is needed.
type Cart struct {
	id    string
	items []Item
	store Store
}

// Load hydrates the cart for a session id. A session with no persisted state
// gets an empty cart.
func Load(ctx context.Context, store Store, cartID string) (*Cart, error) {
	items, err := store.Load(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart: failed to load cart %s: %w", cartID, err)
	}

	return &Cart{id: cartID, items: items, store: store}, nil
}

func (c *Cart) ID() string {
	return c.id
}

// Items returns a copy of the line items.
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) Subtotal() float64 {
	subtotal := 0.0
	for _, item := range c.items {
		subtotal += item.TotalPrice
	}
	return subtotal
}

func (c *Cart) DepositAmount() float64 {
	return c.Subtotal() * depositShare
}

func (c *Cart) RemainingBalance() float64 {
	return c.Subtotal() - c.DepositAmount()
}

func (c *Cart) Summary() Summary {
	return Summary{
		CartID:           c.id,
		Items:            c.Items(),
		ItemCount:        c.ItemCount(),
		Subtotal:         c.Subtotal(),
		DepositAmount:    c.DepositAmount(),
		RemainingBalance: c.RemainingBalance(),
	}
}

// AddStandard puts a standard product in the cart. If the product is already
// present its line merges: quantity accumulates and the total recomputes at
// the unchanged unit price.
func (c *Cart) AddStandard(ctx context.Context, product catalog.Product, quantity int) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}

	for i := range c.items {
		item := &c.items[i]
		if item.Type == ItemStandard && item.Product != nil && item.Product.ID == product.ID {
			item.Quantity += quantity
			item.TotalPrice = item.UnitPrice * float64(item.Quantity)
			if err := c.persist(ctx); err != nil {
				return Item{}, err
			}
			return *item, nil
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return Item{}, fmt.Errorf("cart: failed to generate item id: %w", err)
	}

	item := Item{
		ID:         id,
		Type:       ItemStandard,
		Product:    &product,
		Quantity:   quantity,
		UnitPrice:  product.BasePrice,
		TotalPrice: product.BasePrice * float64(quantity),
	}
	c.items = append(c.items, item)

	if err := c.persist(ctx); err != nil {
		return Item{}, err
	}
	return item, nil
}

// AddCustom appends a custom configuration at the precomputed price. Custom
// lines never merge, even for identical configurations, and always carry
// quantity 1.
func (c *Cart) AddCustom(ctx context.Context, config configurator.CustomConfig, price float64) (Item, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Item{}, fmt.Errorf("cart: failed to generate item id: %w", err)
	}

	item := Item{
		ID:           id,
		Type:         ItemCustom,
		CustomConfig: &config,
		Quantity:     1,
		UnitPrice:    price,
		TotalPrice:   price,
	}
	c.items = append(c.items, item)

	if err := c.persist(ctx); err != nil {
		return Item{}, err
	}
	return item, nil
}

// SetQuantity changes a standard line's quantity. A quantity below 1 removes
// the line. Custom lines silently keep quantity 1.
func (c *Cart) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return c.Remove(ctx, itemID)
	}

	for i := range c.items {
		item := &c.items[i]
		if item.ID != itemID {
			continue
		}
		switch item.Type {
		case ItemCustom:
			return nil
		case ItemStandard:
			item.Quantity = quantity
			item.TotalPrice = item.UnitPrice * float64(quantity)
			return c.persist(ctx)
		}
	}

	return nil
}

// Remove deletes a line. Unknown ids are a no-op.
func (c *Cart) Remove(ctx context.Context, itemID uuid.UUID) error {
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return c.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart and discards its persisted state.
func (c *Cart) Clear(ctx context.Context) error {
	c.items = nil
	if err := c.store.Delete(ctx, c.id); err != nil {
		return fmt.Errorf("cart: failed to clear cart %s: %w", c.id, err)
	}
	return nil
}

func (c *Cart) persist(ctx context.Context) error {
	if err := c.store.Save(ctx, c.id, c.items); err != nil {
		return fmt.Errorf("cart: failed to persist cart %s: %w", c.id, err)
	}
	return nil
}
