package pixelwise

import (
	"fmt"
	"strings"
)

// Purpose is the caller-declared export intent. It selects the scoring
// weight profile used by the recommendation engine.
type Purpose int

const (
	PurposeWeb Purpose = iota
	PurposePrint
	PurposeSocial
	PurposeMobile
	PurposePresentation
	PurposeEmail
	PurposeArchive
)

var purposeNames = map[Purpose]string{
	PurposeWeb:          "web",
	PurposePrint:        "print",
	PurposeSocial:       "social",
	PurposeMobile:       "mobile",
	PurposePresentation: "presentation",
	PurposeEmail:        "email",
	PurposeArchive:      "archive",
}

// String returns the lowercase name of the purpose.
func (p Purpose) String() string {
	if name, ok := purposeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("purpose(%d)", int(p))
}

// Purposes returns every defined purpose in declaration order.
func Purposes() []Purpose {
	return []Purpose{
		PurposeWeb, PurposePrint, PurposeSocial, PurposeMobile,
		PurposePresentation, PurposeEmail, PurposeArchive,
	}
}

// ParsePurpose converts a purpose name into a Purpose value.
func ParsePurpose(name string) (Purpose, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for purpose, purposeName := range purposeNames {
		if purposeName == normalized {
			return purpose, nil
		}
	}

	var available []string
	for _, purpose := range Purposes() {
		available = append(available, purpose.String())
	}
	return 0, fmt.Errorf("unknown purpose '%s'. Available purposes: %v", name, available)
}

// DeviceType classifies the host device.
type DeviceType int

const (
	DeviceUnknown DeviceType = iota
	DeviceMobile
	DeviceTablet
	DeviceLaptop
	DeviceDesktop
)

// String returns the lowercase name of the device type.
func (d DeviceType) String() string {
	switch d {
	case DeviceMobile:
		return "mobile"
	case DeviceTablet:
		return "tablet"
	case DeviceLaptop:
		return "laptop"
	case DeviceDesktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// ParseDeviceType converts a device type name into a DeviceType value.
// Empty and "auto" mean DeviceUnknown, which triggers host detection.
func ParseDeviceType(name string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto", "unknown":
		return DeviceUnknown, nil
	case "mobile":
		return DeviceMobile, nil
	case "tablet":
		return DeviceTablet, nil
	case "laptop":
		return DeviceLaptop, nil
	case "desktop":
		return DeviceDesktop, nil
	default:
		return 0, fmt.Errorf("unknown device type '%s'. Available types: [auto mobile tablet laptop desktop]", name)
	}
}

// PerformanceTier buckets the host device's capability point score.
type PerformanceTier int

const (
	TierLow PerformanceTier = iota
	TierMedium
	TierHigh
	TierUltra
)

// String returns the lowercase name of the performance tier.
func (t PerformanceTier) String() string {
	switch t {
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierUltra:
		return "ultra"
	default:
		return "low"
	}
}

// RenderTimeMultiplier returns the inverse performance multiplier applied
// to render-time estimates. Slower tiers render the same surface slower.
func (t PerformanceTier) RenderTimeMultiplier() float64 {
	switch t {
	case TierLow:
		return 2.0
	case TierMedium:
		return 1.5
	case TierHigh:
		return 1.0
	case TierUltra:
		return 0.5
	default:
		return 1.5
	}
}

// ScalingAlgorithm is the resampling hint passed to the rasterizer.
type ScalingAlgorithm int

const (
	ScaleNearest ScalingAlgorithm = iota
	ScaleBilinear
	ScaleBicubic
	ScaleLanczos
)

// String returns the lowercase name of the scaling algorithm.
func (a ScalingAlgorithm) String() string {
	switch a {
	case ScaleNearest:
		return "nearest"
	case ScaleBilinear:
		return "bilinear"
	case ScaleBicubic:
		return "bicubic"
	case ScaleLanczos:
		return "lanczos"
	default:
		return "unknown"
	}
}

// QualityContribution returns how much the algorithm choice contributes to
// a preview's quality score. Lanczos is the best approximation we ask for.
func (a ScalingAlgorithm) QualityContribution() float64 {
	switch a {
	case ScaleNearest:
		return 0.0
	case ScaleBilinear:
		return 0.1
	case ScaleBicubic:
		return 0.2
	case ScaleLanczos:
		return 0.3
	default:
		return 0.0
	}
}

// ParseScalingAlgorithm converts an algorithm name into a ScalingAlgorithm.
func ParseScalingAlgorithm(name string) (ScalingAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest":
		return ScaleNearest, nil
	case "bilinear":
		return ScaleBilinear, nil
	case "bicubic":
		return ScaleBicubic, nil
	case "lanczos", "":
		return ScaleLanczos, nil
	default:
		return 0, fmt.Errorf("unknown scaling algorithm '%s'. Available algorithms: [nearest bilinear bicubic lanczos]", name)
	}
}

// PerformanceMode controls how aggressively batch work is parallelized.
type PerformanceMode int

const (
	ModeBalanced PerformanceMode = iota
	ModeSpeed
	ModeQuality
)

// String returns the lowercase name of the performance mode.
func (m PerformanceMode) String() string {
	switch m {
	case ModeSpeed:
		return "speed"
	case ModeQuality:
		return "quality"
	default:
		return "balanced"
	}
}

// ConcurrencyLevel returns the bounded worker count for batch operations.
func (m PerformanceMode) ConcurrencyLevel() int {
	switch m {
	case ModeSpeed:
		return 4
	case ModeQuality:
		return 1
	default:
		return 2
	}
}

// ParsePerformanceMode converts a mode name into a PerformanceMode value.
func ParsePerformanceMode(name string) (PerformanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "speed":
		return ModeSpeed, nil
	case "balanced", "":
		return ModeBalanced, nil
	case "quality":
		return ModeQuality, nil
	default:
		return 0, fmt.Errorf("unknown performance mode '%s'. Available modes: [speed balanced quality]", name)
	}
}
