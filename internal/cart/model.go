package cart

import (
	"github.com/gofrs/uuid"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/configurator"
)

type ItemType string

const (
	ItemStandard ItemType = "standard"
	ItemCustom   ItemType = "custom"
)

// Item is one cart line. Exactly one of Product or CustomConfig is set,
// discriminated by Type. Custom items always carry quantity 1.
// TotalPrice == UnitPrice * Quantity holds at all times.
type Item struct {
	ID           uuid.UUID                  `json:"id"`
	Type         ItemType                   `json:"type"`
	Product      *catalog.Product           `json:"product,omitempty"`
	CustomConfig *configurator.CustomConfig `json:"custom_config,omitempty"`
	Quantity     int                        `json:"quantity"`
	UnitPrice    float64                    `json:"unit_price"`
	TotalPrice   float64                    `json:"total_price"`
}

// Summary is the derived view of a cart: the items plus the aggregates the
// storefront shows. Never stored; recomputed from the item list.
type Summary struct {
	CartID           string  `json:"cart_id"`
	Items            []Item  `json:"items"`
	ItemCount        int     `json:"item_count"`
	Subtotal         float64 `json:"subtotal"`
	DepositAmount    float64 `json:"deposit_amount"`
	RemainingBalance float64 `json:"remaining_balance"`
}
