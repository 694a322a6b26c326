package order

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
)

type OrderStatus string

const (
	StatusQuoteGenerated   OrderStatus = "quote_generated"
	StatusDepositPaid      OrderStatus = "deposit_paid"
	StatusInProduction     OrderStatus = "in_production"
	StatusManufactured     OrderStatus = "manufactured"
	StatusReadyForDelivery OrderStatus = "ready_for_delivery"
	StatusDelivered        OrderStatus = "delivered"
	StatusCancelled        OrderStatus = "cancelled"
)

func (os OrderStatus) String() string {
	return string(os)
}

var StatusLabels = map[OrderStatus]string{
	StatusQuoteGenerated:   "Presupuesto Generado",
	StatusDepositPaid:      "Anticipo Pagado",
	StatusInProduction:     "En Producción",
	StatusManufactured:     "Fabricado",
	StatusReadyForDelivery: "Listo para Entrega",
	StatusDelivered:        "Entregado",
	StatusCancelled:        "Cancelado",
}

// Order is the persisted record of a purchase. subtotal ==
// deposit_amount + remaining_balance holds from creation on; status
// transitions never touch the money columns.
type Order struct {
	ID                    uuid.UUID     `json:"id" db:"id"`
	OrderNumber           string        `json:"order_number" db:"order_number"`
	UserID                uuid.UUID     `json:"user_id" db:"user_id"`
	Status                OrderStatus   `json:"status" db:"status"`
	Subtotal              float64       `json:"subtotal" db:"subtotal"`
	DepositAmount         float64       `json:"deposit_amount" db:"deposit_amount"`
	DepositPaid           bool          `json:"deposit_paid" db:"deposit_paid"`
	DepositPaidAt         *time.Time    `json:"deposit_paid_at,omitempty" db:"deposit_paid_at"`
	RemainingBalance      float64       `json:"remaining_balance" db:"remaining_balance"`
	BalancePaid           bool          `json:"balance_paid" db:"balance_paid"`
	BalancePaidAt         *time.Time    `json:"balance_paid_at,omitempty" db:"balance_paid_at"`
	ShippingName          string        `json:"shipping_name" db:"shipping_name"`
	ShippingPhone         string        `json:"shipping_phone" db:"shipping_phone"`
	ShippingAddress       string        `json:"shipping_address" db:"shipping_address"`
	ShippingCity          string        `json:"shipping_city" db:"shipping_city"`
	ShippingPostalCode    string        `json:"shipping_postal_code" db:"shipping_postal_code"`
	ShippingCountry       string        `json:"shipping_country" db:"shipping_country"`
	Notes                 string        `json:"notes,omitempty" db:"notes"`
	EstimatedDeliveryDate *time.Time    `json:"estimated_delivery_date,omitempty" db:"estimated_delivery_date"`
	Items                 []OrderItem   `json:"items" db:"-"`
	ServiceOrder          *ServiceOrder `json:"service_order,omitempty" db:"-"`
	CreatedAt             time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at" db:"updated_at"`
}

// OrderItem freezes one cart line at order creation: prices never recompute,
// and a custom line keeps the full configuration snapshot.
type OrderItem struct {
	ID                  uuid.UUID              `json:"id" db:"id"`
	OrderID             uuid.UUID              `json:"order_id" db:"order_id"`
	ProductID           *uuid.UUID             `json:"product_id,omitempty" db:"product_id"`
	IsCustom            bool                   `json:"is_custom" db:"is_custom"`
	Quantity            int                    `json:"quantity" db:"quantity"`
	UnitPrice           float64                `json:"unit_price" db:"unit_price"`
	TotalPrice          float64                `json:"total_price" db:"total_price"`
	CustomFurnitureType *catalog.FurnitureType `json:"custom_furniture_type,omitempty" db:"custom_furniture_type"`
	CustomWoodTypeID    *uuid.UUID             `json:"custom_wood_type_id,omitempty" db:"custom_wood_type_id"`
	CustomFinishID      *uuid.UUID             `json:"custom_finish_id,omitempty" db:"custom_finish_id"`
	CustomLength        *float64               `json:"custom_length,omitempty" db:"custom_length"`
	CustomWidth         *float64               `json:"custom_width,omitempty" db:"custom_width"`
	CustomHeight        *float64               `json:"custom_height,omitempty" db:"custom_height"`
	CustomExtras        []uuid.UUID            `json:"custom_extras" db:"custom_extras"`
	CustomNotes         string                 `json:"custom_notes,omitempty" db:"custom_notes"`
	CreatedAt           time.Time              `json:"created_at" db:"created_at"`
}

// SpecLine is one line of a service order's technical specification.
type SpecLine struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type TechnicalSpecifications struct {
	Items []SpecLine `json:"items"`
}

// ServiceOrder is the 1:1 production-tracking companion of an Order,
// summarizing the line items for manufacturing staff.
type ServiceOrder struct {
	ID                      uuid.UUID               `json:"id" db:"id"`
	ServiceOrderNumber      string                  `json:"service_order_number" db:"service_order_number"`
	OrderID                 uuid.UUID               `json:"order_id" db:"order_id"`
	CustomerName            string                  `json:"customer_name" db:"customer_name"`
	CustomerPhone           string                  `json:"customer_phone" db:"customer_phone"`
	CustomerEmail           string                  `json:"customer_email" db:"customer_email"`
	TechnicalSpecifications TechnicalSpecifications `json:"technical_specifications" db:"technical_specifications"`
	TotalPrice              float64                 `json:"total_price" db:"total_price"`
	DepositPaid             float64                 `json:"deposit_paid" db:"deposit_paid"`
	RemainingBalance        float64                 `json:"remaining_balance" db:"remaining_balance"`
	EstimatedProductionDays int                     `json:"estimated_production_days" db:"estimated_production_days"`
	ProductionNotes         string                  `json:"production_notes,omitempty" db:"production_notes"`
	QRCodeData              string                  `json:"qr_code_data,omitempty" db:"qr_code_data"`
	CreatedAt               time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time               `json:"updated_at" db:"updated_at"`
}

type Notification struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	OrderID        uuid.UUID `json:"order_id" db:"order_id"`
	Type           string    `json:"type" db:"type"`
	Title          string    `json:"title" db:"title"`
	Message        string    `json:"message" db:"message"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	WouldSendEmail bool      `json:"would_send_email" db:"would_send_email"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
