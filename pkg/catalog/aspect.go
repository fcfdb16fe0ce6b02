package catalog

import (
	"fmt"
	"math"
)

// standardRatio is one entry in the fixed table of recognized aspect ratios.
type standardRatio struct {
	tag   string
	value float64
}

// Recognized landscape ratios. Portrait surfaces are matched against the
// inverse and tagged with the flipped name (e.g. 9:16).
var standardRatios = []standardRatio{
	{"1:1", 1.0},
	{"4:3", 4.0 / 3.0},
	{"16:9", 16.0 / 9.0},
	{"16:10", 16.0 / 10.0},
	{"21:9", 21.0 / 9.0},
	{"3:2", 3.0 / 2.0},
	{"5:4", 5.0 / 4.0},
}

// Inverse tags for portrait orientation.
var portraitTags = map[string]string{
	"1:1":   "1:1",
	"4:3":   "3:4",
	"16:9":  "9:16",
	"16:10": "10:16",
	"21:9":  "9:21",
	"3:2":   "2:3",
	"5:4":   "4:5",
}

// aspectTolerance is the relative tolerance for matching a standard ratio.
const aspectTolerance = 0.01

// DetectAspectRatio matches a surface against the standard ratio table
// within 1% tolerance and returns the matched tag, or "custom".
func DetectAspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "custom"
	}

	ratio := float64(width) / float64(height)
	for _, standard := range standardRatios {
		if math.Abs(ratio-standard.value)/standard.value <= aspectTolerance {
			return standard.tag
		}

		inverse := 1.0 / standard.value
		if math.Abs(ratio-inverse)/inverse <= aspectTolerance {
			return portraitTags[standard.tag]
		}
	}
	return "custom"
}

// IsStandardRatio reports whether a surface matches any recognized ratio in
// either orientation.
func IsStandardRatio(width, height int) bool {
	return DetectAspectRatio(width, height) != "custom"
}

// AdjustKeepingAspectRatio scales a surface to a new width or height while
// preserving its aspect ratio. Exactly one of newWidth/newHeight must be
// positive; the other dimension is derived from the source ratio.
func AdjustKeepingAspectRatio(width, height, newWidth, newHeight int) (int, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("source dimensions must be positive, got %dx%d", width, height)
	}

	ratio := float64(width) / float64(height)

	switch {
	case newWidth > 0 && newHeight > 0:
		return 0, 0, fmt.Errorf("specify either a new width or a new height, not both")
	case newWidth > 0:
		return newWidth, int(math.Round(float64(newWidth) / ratio)), nil
	case newHeight > 0:
		return int(math.Round(float64(newHeight) * ratio)), newHeight, nil
	default:
		return 0, 0, fmt.Errorf("specify a new width or a new height")
	}
}

// AdjustToRatio derives a surface from an explicit target ratio instead of
// a source surface. Exactly one of newWidth/newHeight must be positive; the
// other dimension is derived from the stated ratio (width over height).
func AdjustToRatio(newWidth, newHeight int, ratio float64) (int, int, error) {
	if ratio <= 0 {
		return 0, 0, fmt.Errorf("target ratio must be positive, got %g", ratio)
	}

	switch {
	case newWidth > 0 && newHeight > 0:
		return 0, 0, fmt.Errorf("specify either a new width or a new height, not both")
	case newWidth > 0:
		return newWidth, int(math.Round(float64(newWidth) / ratio)), nil
	case newHeight > 0:
		return int(math.Round(float64(newHeight) * ratio)), newHeight, nil
	default:
		return 0, 0, fmt.Errorf("specify a new width or a new height")
	}
}

// FitWithin shrinks a surface to fit inside maxWidth x maxHeight while
// preserving aspect ratio. Surfaces already inside the bounds are returned
// unchanged; surfaces are never upscaled.
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if ratio > float64(maxWidth)/float64(maxHeight) {
		// Width is the limiting factor
		return maxWidth, int(math.Round(float64(maxWidth) / ratio))
	}
	// Height is the limiting factor
	return int(math.Round(float64(maxHeight) * ratio)), maxHeight
}
