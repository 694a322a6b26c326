// Package pricing computes quotes for custom furniture. The formula is the
// one the storefront has always shipped with: material volume and finish
// surface costed from the catalog, a fixed labor rate, flat extras, a per-type
// complexity multiplier, then margin and overhead.
package pricing

import (
	"math"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
)

// Fixed cost constants. A configurable cost sheet exists in the schema
// (catalog.CostSheet) but the engine intentionally keeps the constants the
// storefront has been charging with.
const (
	laborHoursPerCubicMeter = 40.0
	laborRatePerHour        = 25.0
	profitMargin            = 0.30
	overhead                = 0.15
	depositShare            = 0.5
)

var complexityMultipliers = map[catalog.FurnitureType]float64{
	catalog.TypeDiningTable: 1.5,
	catalog.TypeCoffeeTable: 1.0,
	catalog.TypeBookshelf:   1.2,
	catalog.TypeBedFrame:    1.4,
	catalog.TypeDesk:        1.3,
	catalog.TypeCabinet:     1.6,
}

// Input is one custom configuration plus the catalog rows it references.
// Dimensions are centimeters. Notes never affect the price.
type Input struct {
	FurnitureType catalog.FurnitureType
	Length        float64
	Width         float64
	Height        float64
	WoodType      *catalog.WoodType
	Finish        *catalog.Finish
	Extras        []catalog.Extra
}

// Breakdown itemizes a computed price.
type Breakdown struct {
	VolumeCubicMeters    float64 `json:"volume_cubic_meters"`
	SurfaceSquareMeters  float64 `json:"surface_square_meters"`
	MaterialCost         float64 `json:"material_cost"`
	FinishCost           float64 `json:"finish_cost"`
	LaborCost            float64 `json:"labor_cost"`
	ExtrasCost           float64 `json:"extras_cost"`
	ComplexityMultiplier float64 `json:"complexity_multiplier"`
	Total                float64 `json:"total"`
}

// Quote is a priced configuration with its deposit split.
type Quote struct {
	Price            float64 `json:"price"`
	DepositAmount    float64 `json:"deposit_amount"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// Calculate returns the price in whole euros. An input with no furniture
// type, wood, or finish selected prices at 0; callers gate add-to-cart on a
// complete selection rather than treating 0 as an error.
func Calculate(in Input) float64 {
	return Itemize(in).Total
}

// Itemize computes the full cost breakdown for a configuration. The total is
// rounded to the nearest euro; intermediate components are not.
func Itemize(in Input) Breakdown {
	multiplier, known := complexityMultipliers[in.FurnitureType]
	if !known || in.WoodType == nil || in.Finish == nil {
		return Breakdown{}
	}

	volume := (in.Length * in.Width * in.Height) / 1_000_000
	surface := 2 * (in.Length*in.Width + in.Length*in.Height + in.Width*in.Height) / 10_000

	materialCost := volume * in.WoodType.CostPerCubicMeter
	finishCost := surface * in.Finish.CostPerSquareMeter
	laborCost := volume * laborHoursPerCubicMeter * laborRatePerHour

	extrasCost := 0.0
	for _, extra := range in.Extras {
		extrasCost += extra.BasePrice
	}

	baseCost := (materialCost + laborCost + finishCost + extrasCost) * multiplier
	total := baseCost * (1 + profitMargin) * (1 + overhead)

	return Breakdown{
		VolumeCubicMeters:    volume,
		SurfaceSquareMeters:  surface,
		MaterialCost:         materialCost,
		FinishCost:           finishCost,
		LaborCost:            laborCost,
		ExtrasCost:           extrasCost,
		ComplexityMultiplier: multiplier,
		Total:                math.Round(total),
	}
}

// NewQuote splits a price into the 50% deposit due at order placement and the
// balance due on delivery. The deposit is rounded to a whole euro the same
// way the configurator displays it.
func NewQuote(price float64) Quote {
	deposit := math.Round(price * depositShare)
	return Quote{
		Price:            price,
		DepositAmount:    deposit,
		RemainingBalance: price - deposit,
	}
}
