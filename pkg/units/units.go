// Package units implements the unit and DPI arithmetic every other part of
// the engine builds on: pixel/physical conversions, DPI derivation, pixel
// ratios and file-size estimation. All functions are pure.
package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/alde/pixelwise/pkg/pixelwise"
)

// Unit is a physical or pixel length unit.
type Unit int

const (
	Pixel Unit = iota
	Inch
	Centimeter
	Millimeter
	Point
	Pica
)

// String returns the lowercase name of the unit.
func (u Unit) String() string {
	switch u {
	case Pixel:
		return "px"
	case Inch:
		return "in"
	case Centimeter:
		return "cm"
	case Millimeter:
		return "mm"
	case Point:
		return "pt"
	case Pica:
		return "pc"
	default:
		return "unknown"
	}
}

// ParseUnit converts a unit name or abbreviation into a Unit value.
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "px", "pixel", "pixels":
		return Pixel, nil
	case "in", "inch", "inches":
		return Inch, nil
	case "cm", "centimeter", "centimeters":
		return Centimeter, nil
	case "mm", "millimeter", "millimeters":
		return Millimeter, nil
	case "pt", "point", "points":
		return Point, nil
	case "pc", "pica", "picas":
		return Pica, nil
	default:
		return 0, fmt.Errorf("unknown unit '%s'. Available units: [px in cm mm pt pc]", name)
	}
}

// Inches per unit, the common base for physical conversions.
var inchesPerUnit = map[Unit]float64{
	Inch:       1.0,
	Centimeter: 1.0 / 2.54,
	Millimeter: 1.0 / 25.4,
	Point:      1.0 / 72.0,
	Pica:       1.0 / 6.0,
}

// Domain limits for validation.
const (
	MinDPI            = 72
	MaxDPI            = 600
	MaxPixelDimension = 16384

	// BaselineDPI is the reference density a pixel ratio of 1.0 maps to.
	BaselineDPI = 96
)

// ValidateDPI checks that dpi lies within the supported [72, 600] domain.
func ValidateDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return &pixelwise.OutOfRangeError{Field: "dpi", Value: float64(dpi), Min: MinDPI, Max: MaxDPI}
	}
	return nil
}

// ValidatePixelDimension checks that a pixel dimension is positive and does
// not exceed the maximum surface edge the engine will touch.
func ValidatePixelDimension(name string, value int) error {
	if value <= 0 || value > MaxPixelDimension {
		return &pixelwise.OutOfRangeError{Field: name, Value: float64(value), Min: 1, Max: MaxPixelDimension}
	}
	return nil
}

// Calculation is the result of one conversion call: pixel dimensions, the
// physical size they map to at the computed density, and derived figures.
type Calculation struct {
	DPI            int
	PixelWidth     int
	PixelHeight    int
	PhysicalWidth  float64
	PhysicalHeight float64
	Unit           Unit
	PixelRatio     float64
	TotalPixels    int64
	AspectRatio    float64
}

// DPIFromSize derives the DPI implied by a pixel surface printed at a given
// physical size. Horizontal and vertical DPI are computed independently and
// averaged, rounded to the nearest integer.
func DPIFromSize(pixelW, pixelH int, physW, physH float64, unit Unit) (Calculation, error) {
	if err := ValidatePixelDimension("pixelWidth", pixelW); err != nil {
		return Calculation{}, err
	}
	if err := ValidatePixelDimension("pixelHeight", pixelH); err != nil {
		return Calculation{}, err
	}
	if physW <= 0 || physH <= 0 {
		return Calculation{}, fmt.Errorf("physical size must be positive, got %gx%g", physW, physH)
	}

	widthInches, err := toInches(physW, unit)
	if err != nil {
		return Calculation{}, err
	}
	heightInches, err := toInches(physH, unit)
	if err != nil {
		return Calculation{}, err
	}

	horizontal := float64(pixelW) / widthInches
	vertical := float64(pixelH) / heightInches
	dpi := int(math.Round((horizontal + vertical) / 2))

	return Calculation{
		DPI:            dpi,
		PixelWidth:     pixelW,
		PixelHeight:    pixelH,
		PhysicalWidth:  roundPhysical(physW, unit),
		PhysicalHeight: roundPhysical(physH, unit),
		Unit:           unit,
		PixelRatio:     PixelRatio(dpi),
		TotalPixels:    int64(pixelW) * int64(pixelH),
		AspectRatio:    float64(pixelW) / float64(pixelH),
	}, nil
}

// PhysicalFromPixels computes the physical print size of a pixel surface at
// the given DPI. Inch and centimeter results round to 2 decimal places,
// millimeters to 1.
func PhysicalFromPixels(pixelW, pixelH, dpi int, unit Unit) (Calculation, error) {
	if err := ValidatePixelDimension("pixelWidth", pixelW); err != nil {
		return Calculation{}, err
	}
	if err := ValidatePixelDimension("pixelHeight", pixelH); err != nil {
		return Calculation{}, err
	}
	if err := ValidateDPI(dpi); err != nil {
		return Calculation{}, err
	}

	widthInches := float64(pixelW) / float64(dpi)
	heightInches := float64(pixelH) / float64(dpi)

	physW, err := fromInches(widthInches, unit)
	if err != nil {
		return Calculation{}, err
	}
	physH, err := fromInches(heightInches, unit)
	if err != nil {
		return Calculation{}, err
	}

	return Calculation{
		DPI:            dpi,
		PixelWidth:     pixelW,
		PixelHeight:    pixelH,
		PhysicalWidth:  roundPhysical(physW, unit),
		PhysicalHeight: roundPhysical(physH, unit),
		Unit:           unit,
		PixelRatio:     PixelRatio(dpi),
		TotalPixels:    int64(pixelW) * int64(pixelH),
		AspectRatio:    float64(pixelW) / float64(pixelH),
	}, nil
}

// PixelsFromPhysical computes the pixel surface needed to print a physical
// size at the given DPI. Pixel counts round to the nearest integer.
func PixelsFromPhysical(physW, physH float64, dpi int, unit Unit) (Calculation, error) {
	if physW <= 0 || physH <= 0 {
		return Calculation{}, fmt.Errorf("physical size must be positive, got %gx%g", physW, physH)
	}
	if err := ValidateDPI(dpi); err != nil {
		return Calculation{}, err
	}

	widthInches, err := toInches(physW, unit)
	if err != nil {
		return Calculation{}, err
	}
	heightInches, err := toInches(physH, unit)
	if err != nil {
		return Calculation{}, err
	}

	pixelW := int(math.Round(widthInches * float64(dpi)))
	pixelH := int(math.Round(heightInches * float64(dpi)))

	if err := ValidatePixelDimension("pixelWidth", pixelW); err != nil {
		return Calculation{}, err
	}
	if err := ValidatePixelDimension("pixelHeight", pixelH); err != nil {
		return Calculation{}, err
	}

	return Calculation{
		DPI:            dpi,
		PixelWidth:     pixelW,
		PixelHeight:    pixelH,
		PhysicalWidth:  roundPhysical(physW, unit),
		PhysicalHeight: roundPhysical(physH, unit),
		Unit:           unit,
		PixelRatio:     PixelRatio(dpi),
		TotalPixels:    int64(pixelW) * int64(pixelH),
		AspectRatio:    float64(pixelW) / float64(pixelH),
	}, nil
}

// PixelRatio returns the device pixel ratio relative to the 96 DPI baseline.
func PixelRatio(dpi int) float64 {
	return float64(dpi) / BaselineDPI
}

// EstimateFileSize returns a heuristic uncompressed-adjacent byte estimate
// for a surface at the given DPI: 4 bytes per pixel, scaled quadratically by
// the density relative to baseline, with a 0.3 compression factor.
func EstimateFileSize(pixelW, pixelH, dpi int) int64 {
	pixels := float64(pixelW) * float64(pixelH)
	ratio := PixelRatio(dpi)
	return int64(pixels * 4 * ratio * ratio * 0.3)
}

// Convert converts a plain length value between units. Pixel conversions
// need a density; use ConvertWithDPI for those.
func Convert(value float64, from, to Unit) (float64, error) {
	return ConvertWithDPI(value, from, to, BaselineDPI)
}

// ConvertWithDPI converts a length value between units, going through the
// inch base unit. Pixel values enter and leave through the supplied DPI.
func ConvertWithDPI(value float64, from, to Unit, dpi int) (float64, error) {
	if from == to {
		return value, nil
	}
	if from == Pixel || to == Pixel {
		if err := ValidateDPI(dpi); err != nil {
			return 0, err
		}
	}

	var inches float64
	if from == Pixel {
		inches = value / float64(dpi)
	} else {
		converted, err := toInches(value, from)
		if err != nil {
			return 0, err
		}
		inches = converted
	}

	if to == Pixel {
		return math.Round(inches * float64(dpi)), nil
	}
	return fromInches(inches, to)
}

// toInches converts a physical value into the inch base unit.
func toInches(value float64, unit Unit) (float64, error) {
	factor, ok := inchesPerUnit[unit]
	if !ok {
		return 0, fmt.Errorf("unit %s has no physical length", unit)
	}
	return value * factor, nil
}

// fromInches converts an inch value into the target physical unit.
func fromInches(value float64, unit Unit) (float64, error) {
	factor, ok := inchesPerUnit[unit]
	if !ok {
		return 0, fmt.Errorf("unit %s has no physical length", unit)
	}
	return value / factor, nil
}

// roundPhysical rounds a physical size for display: 2 decimal places for
// inch and centimeter, 1 for millimeter, untouched otherwise.
func roundPhysical(value float64, unit Unit) float64 {
	switch unit {
	case Inch, Centimeter:
		return math.Round(value*100) / 100
	case Millimeter:
		return math.Round(value*10) / 10
	default:
		return value
	}
}
