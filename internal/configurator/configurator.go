// Package configurator models the customization wizard as an explicit
// stepper: accumulate selections, gate each step on a pure predicate, and
// hand out a complete configuration only when every required choice is made.
package configurator

import (
	"errors"
	"fmt"

	"github.com/woodcraft-pdl/storefront/internal/catalog"
)

type Step int

const (
	StepType Step = iota + 1
	StepDimensions
	StepWood
	StepFinish
	StepExtras
)

const FinalStep = StepExtras

// Dimensions in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DimensionBounds is the allowed [min, max] envelope for one furniture type.
type DimensionBounds struct {
	Min Dimensions
	Max Dimensions
}

var dimensionBounds = map[catalog.FurnitureType]DimensionBounds{
	catalog.TypeDiningTable: {Min: Dimensions{120, 80, 70}, Max: Dimensions{300, 150, 85}},
	catalog.TypeCoffeeTable: {Min: Dimensions{80, 50, 35}, Max: Dimensions{180, 100, 55}},
	catalog.TypeBookshelf:   {Min: Dimensions{60, 25, 100}, Max: Dimensions{200, 45, 250}},
	catalog.TypeBedFrame:    {Min: Dimensions{190, 90, 35}, Max: Dimensions{220, 200, 60}},
	catalog.TypeDesk:        {Min: Dimensions{100, 50, 70}, Max: Dimensions{200, 100, 85}},
	catalog.TypeCabinet:     {Min: Dimensions{40, 35, 80}, Max: Dimensions{150, 60, 220}},
}

var (
	ErrUnknownFurnitureType  = errors.New("unknown furniture type")
	ErrIncompleteSelection   = errors.New("configuration is missing required selections")
	ErrDimensionsOutOfBounds = errors.New("dimensions outside the allowed range")
)

// BoundsFor returns the dimension envelope for a furniture type.
func BoundsFor(ft catalog.FurnitureType) (DimensionBounds, error) {
	bounds, ok := dimensionBounds[ft]
	if !ok {
		return DimensionBounds{}, fmt.Errorf("%w: %s", ErrUnknownFurnitureType, ft)
	}
	return bounds, nil
}

// CustomConfig is a completed buyer specification, ready to be priced and
// frozen into a cart item. It is never persisted on its own.
type CustomConfig struct {
	FurnitureType catalog.FurnitureType `json:"furniture_type"`
	WoodType      catalog.WoodType      `json:"wood_type"`
	Finish        catalog.Finish        `json:"finish"`
	Length        float64               `json:"length"`
	Width         float64               `json:"width"`
	Height        float64               `json:"height"`
	Extras        []catalog.Extra       `json:"extras"`
	Notes         string                `json:"notes,omitempty"`
}

// Stepper accumulates wizard selections. The zero value starts at StepType
// with nothing chosen.
type Stepper struct {
	step       Step
	furniture  catalog.FurnitureType
	dimensions Dimensions
	wood       *catalog.WoodType
	finish     *catalog.Finish
	extras     []catalog.Extra
	notes      string
}

func NewStepper() *Stepper {
	return &Stepper{step: StepType}
}

func (s *Stepper) Current() Step {
	return s.step
}

// SelectType picks the furniture type and seeds the dimensions at the type's
// minimums, the same defaults the wizard shows.
func (s *Stepper) SelectType(ft catalog.FurnitureType) error {
	bounds, err := BoundsFor(ft)
	if err != nil {
		return err
	}
	s.furniture = ft
	s.dimensions = bounds.Min
	return nil
}

func (s *Stepper) SetDimensions(d Dimensions) {
	s.dimensions = d
}

func (s *Stepper) SelectWood(wt catalog.WoodType) {
	s.wood = &wt
}

func (s *Stepper) SelectFinish(f catalog.Finish) {
	s.finish = &f
}

// ToggleExtra adds the extra if absent, removes it if present. The selection
// is a set: order-irrelevant, no duplicates.
func (s *Stepper) ToggleExtra(extra catalog.Extra) {
	for i, e := range s.extras {
		if e.ID == extra.ID {
			s.extras = append(s.extras[:i], s.extras[i+1:]...)
			return
		}
	}
	s.extras = append(s.extras, extra)
}

func (s *Stepper) SetNotes(notes string) {
	s.notes = notes
}

// CanAdvance reports whether the given step's requirements are satisfied by
// the accumulated selections. Pure with respect to the stepper state.
func (s *Stepper) CanAdvance(step Step) bool {
	switch step {
	case StepType:
		return s.furniture != ""
	case StepDimensions:
		return s.dimensions.Length > 0 && s.dimensions.Width > 0 && s.dimensions.Height > 0
	case StepWood:
		return s.wood != nil
	case StepFinish:
		return s.finish != nil
	case StepExtras:
		return true
	default:
		return false
	}
}

// Advance moves to the next step if the current one is satisfied.
func (s *Stepper) Advance() error {
	if !s.CanAdvance(s.step) {
		return fmt.Errorf("configurator: step %d is not complete", s.step)
	}
	if s.step < FinalStep {
		s.step++
	}
	return nil
}

// Back returns to the previous step. Selections are kept.
func (s *Stepper) Back() {
	if s.step > StepType {
		s.step--
	}
}

// Config returns the completed configuration. It fails if any required
// selection is missing or the dimensions fall outside the type's bounds —
// dimension validation lives here, not in the pricing engine.
func (s *Stepper) Config() (CustomConfig, error) {
	if s.furniture == "" || s.wood == nil || s.finish == nil {
		return CustomConfig{}, ErrIncompleteSelection
	}

	if err := ValidateDimensions(s.furniture, s.dimensions); err != nil {
		return CustomConfig{}, err
	}

	extras := make([]catalog.Extra, len(s.extras))
	copy(extras, s.extras)

	return CustomConfig{
		FurnitureType: s.furniture,
		WoodType:      *s.wood,
		Finish:        *s.finish,
		Length:        s.dimensions.Length,
		Width:         s.dimensions.Width,
		Height:        s.dimensions.Height,
		Extras:        extras,
		Notes:         s.notes,
	}, nil
}

// ValidateDimensions checks each dimension against the type's envelope.
func ValidateDimensions(ft catalog.FurnitureType, d Dimensions) error {
	bounds, err := BoundsFor(ft)
	if err != nil {
		return err
	}

	check := func(name string, value, min, max float64) error {
		if value < min || value > max {
			return fmt.Errorf("%w: %s %.0f cm is outside the %.0f-%.0f cm range for %s", ErrDimensionsOutOfBounds, name, value, min, max, ft)
		}
		return nil
	}

	if err := check("length", d.Length, bounds.Min.Length, bounds.Max.Length); err != nil {
		return err
	}
	if err := check("width", d.Width, bounds.Min.Width, bounds.Max.Width); err != nil {
		return err
	}
	return check("height", d.Height, bounds.Min.Height, bounds.Max.Height)
}
