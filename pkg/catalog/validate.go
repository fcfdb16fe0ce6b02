package catalog

import (
	"fmt"

	"github.com/alde/pixelwise/pkg/units"
)

// Per-dimension ceiling for a catalog-validated resolution. Larger surfaces
// are still representable by the math core but are rejected as export
// targets.
const maxResolutionDimension = 8192

// Estimated file sizes above this raise a validation warning.
const fileSizeWarningBytes = 10 * 1024 * 1024

// ValidationResult collects hard errors and soft warnings for a requested
// resolution. A result with warnings but no errors is still valid.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateResolution checks a resolution and optional DPI (0 means "not
// specified"). Dimension violations are errors; questionable DPI or very
// large estimated output only warn.
func ValidateResolution(width, height, dpi int) ValidationResult {
	result := ValidationResult{Valid: true}

	if width <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("width must be positive, got %d", width))
	} else if width > maxResolutionDimension {
		result.Errors = append(result.Errors, fmt.Sprintf("width %d exceeds maximum of %d", width, maxResolutionDimension))
	}

	if height <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("height must be positive, got %d", height))
	} else if height > maxResolutionDimension {
		result.Errors = append(result.Errors, fmt.Sprintf("height %d exceeds maximum of %d", height, maxResolutionDimension))
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		return result
	}

	if dpi != 0 {
		if err := units.ValidateDPI(dpi); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("DPI %d outside the recommended 72-600 range", dpi))
		}
	}

	effectiveDPI := dpi
	if effectiveDPI == 0 {
		effectiveDPI = units.BaselineDPI
	}
	if estimated := units.EstimateFileSize(width, height, effectiveDPI); estimated > fileSizeWarningBytes {
		result.Warnings = append(result.Warnings, fmt.Sprintf("estimated output of %d bytes exceeds 10 MB", estimated))
	}

	return result
}
