package catalog

import (
	"time"

	"github.com/gofrs/uuid"
)

type FurnitureType string

const (
	TypeDiningTable FurnitureType = "dining_table"
	TypeCoffeeTable FurnitureType = "coffee_table"
	TypeBookshelf   FurnitureType = "bookshelf"
	TypeBedFrame    FurnitureType = "bed_frame"
	TypeDesk        FurnitureType = "desk"
	TypeCabinet     FurnitureType = "cabinet"
)

func (ft FurnitureType) String() string {
	return string(ft)
}

type FurnitureCategory string

const (
	CategoryTables   FurnitureCategory = "tables"
	CategoryChairs   FurnitureCategory = "chairs"
	CategoryBeds     FurnitureCategory = "beds"
	CategoryCabinets FurnitureCategory = "cabinets"
	CategoryShelving FurnitureCategory = "shelving"
	CategoryDesks    FurnitureCategory = "desks"
)

// WoodType is reference data maintained by catalog management.
// PriceMultiplier is shown next to the wood in the configurator; the pricing
// engine costs wood through CostPerCubicMeter only.
type WoodType struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	PriceMultiplier   float64   `json:"price_multiplier" db:"price_multiplier"`
	CostPerCubicMeter float64   `json:"cost_per_cubic_meter" db:"cost_per_cubic_meter"`
	ImageURL          string    `json:"image_url,omitempty" db:"image_url"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

type Finish struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Description        string    `json:"description" db:"description"`
	CostPerSquareMeter float64   `json:"cost_per_square_meter" db:"cost_per_square_meter"`
	IsActive           bool      `json:"is_active" db:"is_active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

type Extra struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	BasePrice   float64   `json:"base_price" db:"base_price"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Product struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	Name             string            `json:"name" db:"name"`
	Description      string            `json:"description" db:"description"`
	Category         FurnitureCategory `json:"category" db:"category"`
	BasePrice        float64           `json:"base_price" db:"base_price"`
	WoodTypeID       *uuid.UUID        `json:"wood_type_id,omitempty" db:"wood_type_id"`
	FinishID         *uuid.UUID        `json:"finish_id,omitempty" db:"finish_id"`
	DimensionsLength *float64          `json:"dimensions_length,omitempty" db:"dimensions_length"`
	DimensionsWidth  *float64          `json:"dimensions_width,omitempty" db:"dimensions_width"`
	DimensionsHeight *float64          `json:"dimensions_height,omitempty" db:"dimensions_height"`
	StockQuantity    int               `json:"stock_quantity" db:"stock_quantity"`
	IsFeatured       bool              `json:"is_featured" db:"is_featured"`
	IsActive         bool              `json:"is_active" db:"is_active"`
	Images           []string          `json:"images" db:"images"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
	WoodType         *WoodType         `json:"wood_type,omitempty" db:"-"`
	Finish           *Finish           `json:"finish,omitempty" db:"-"`
}

// CostSheet is the configurable cost model kept in the schema. The pricing
// engine currently prices with its fixed constants instead of the active
// sheet; the sheet is exposed read-only until that switch is made.
type CostSheet struct {
	ID                              uuid.UUID `json:"id" db:"id"`
	Name                            string    `json:"name" db:"name"`
	LaborRatePerHour                float64   `json:"labor_rate_per_hour" db:"labor_rate_per_hour"`
	ProfitMarginPercentage          float64   `json:"profit_margin_percentage" db:"profit_margin_percentage"`
	OverheadPercentage              float64   `json:"overhead_percentage" db:"overhead_percentage"`
	ComplexityMultiplierDiningTable float64   `json:"complexity_multiplier_dining_table" db:"complexity_multiplier_dining_table"`
	ComplexityMultiplierCoffeeTable float64   `json:"complexity_multiplier_coffee_table" db:"complexity_multiplier_coffee_table"`
	ComplexityMultiplierBookshelf   float64   `json:"complexity_multiplier_bookshelf" db:"complexity_multiplier_bookshelf"`
	ComplexityMultiplierBedFrame    float64   `json:"complexity_multiplier_bed_frame" db:"complexity_multiplier_bed_frame"`
	ComplexityMultiplierDesk        float64   `json:"complexity_multiplier_desk" db:"complexity_multiplier_desk"`
	ComplexityMultiplierCabinet     float64   `json:"complexity_multiplier_cabinet" db:"complexity_multiplier_cabinet"`
	IsActive                        bool      `json:"is_active" db:"is_active"`
	CreatedAt                       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                       time.Time `json:"updated_at" db:"updated_at"`
}

// Display labels shown by the storefront UI.
var FurnitureTypeLabels = map[FurnitureType]string{
	TypeDiningTable: "Mesa de Comedor",
	TypeCoffeeTable: "Mesa de Centro",
	TypeBookshelf:   "Estantería",
	TypeBedFrame:    "Estructura de Cama",
	TypeDesk:        "Escritorio",
	TypeCabinet:     "Armario",
}

var FurnitureCategoryLabels = map[FurnitureCategory]string{
	CategoryTables:   "Mesas",
	CategoryChairs:   "Sillas",
	CategoryBeds:     "Camas",
	CategoryCabinets: "Armarios",
	CategoryShelving: "Estanterías",
	CategoryDesks:    "Escritorios",
}
