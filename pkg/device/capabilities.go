package device

import (
	"math"
	"strings"

	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/units"
)

// ScreenInfo describes the host display surface.
type ScreenInfo struct {
	Width        int
	Height       int
	TouchCapable bool
}

// PixelDensityInfo describes the display's pixel density.
type PixelDensityInfo struct {
	Ratio        float64
	EffectiveDPI int
}

// MemoryInfo describes the memory budget the engine may draw on.
type MemoryInfo struct {
	DeviceMemoryGB   float64
	HeapCeilingBytes uint64
}

// FeatureFlags records which optional rendering capabilities the host
// supports.
type FeatureFlags struct {
	ParallelRaster  bool
	WorkerThreads   bool
	SharedMemory    bool
	OffscreenRender bool
}

// Capabilities is the classified view of a host device.
type Capabilities struct {
	DeviceType      pixelwise.DeviceType
	PerformanceTier pixelwise.PerformanceTier
	Screen          ScreenInfo
	PixelDensity    PixelDensityInfo
	Memory          MemoryInfo
	Features        FeatureFlags
	NetworkKind     string
}

// DPIEnvelope is the density range a device can usefully render.
type DPIEnvelope struct {
	Min     int
	Optimal int
	Max     int
}

// Recommendation is the resolution/DPI envelope derived from capabilities.
type Recommendation struct {
	Envelope      DPIEnvelope
	MaxSafeWidth  int
	MaxSafeHeight int
}

// Platform substrings that directly classify a device before screen
// heuristics run.
var mobilePlatforms = []string{"android", "iphone", "ios", "mobile"}
var tabletPlatforms = []string{"ipad", "tablet"}

// Classify builds Capabilities from raw signals. Classification order:
// explicit platform signal, then touch plus screen size, then screen size
// alone.
func Classify(signals Signals) Capabilities {
	deviceType := classifyType(signals)
	tier := classifyTier(signals)

	density := signals.PixelDensity
	if density <= 0 {
		density = 1.0
	}

	return Capabilities{
		DeviceType:      deviceType,
		PerformanceTier: tier,
		Screen: ScreenInfo{
			Width:        signals.ScreenWidth,
			Height:       signals.ScreenHeight,
			TouchCapable: signals.TouchCapable,
		},
		PixelDensity: PixelDensityInfo{
			Ratio:        density,
			EffectiveDPI: int(math.Round(density * units.BaselineDPI)),
		},
		Memory: MemoryInfo{
			DeviceMemoryGB:   signals.DeviceMemoryGB,
			HeapCeilingBytes: signals.HeapCeilingBytes,
		},
		Features: FeatureFlags{
			ParallelRaster:  signals.ParallelRaster,
			WorkerThreads:   signals.WorkerThreads,
			SharedMemory:    signals.SharedMemory,
			OffscreenRender: signals.OffscreenRender,
		},
		NetworkKind: signals.NetworkKind,
	}
}

// classifyType applies the platform/touch/screen classification order.
func classifyType(signals Signals) pixelwise.DeviceType {
	platform := strings.ToLower(signals.Platform)
	for _, marker := range tabletPlatforms {
		if strings.Contains(platform, marker) {
			return pixelwise.DeviceTablet
		}
	}
	for _, marker := range mobilePlatforms {
		if strings.Contains(platform, marker) {
			return pixelwise.DeviceMobile
		}
	}

	if signals.TouchCapable {
		if signals.ScreenWidth <= 768 {
			return pixelwise.DeviceMobile
		}
		if signals.ScreenWidth <= 1024 {
			return pixelwise.DeviceTablet
		}
	}

	if signals.ScreenWidth <= 1366 {
		return pixelwise.DeviceLaptop
	}
	return pixelwise.DeviceDesktop
}

// classifyTier buckets a weighted capability point score into a tier.
// Points: CPU cores up to 3, device memory up to 3, heap ceiling up to 2,
// raster acceleration 1, worker threads 1, shared memory 1.
func classifyTier(signals Signals) pixelwise.PerformanceTier {
	score := 0

	switch {
	case signals.CPUCores >= 8:
		score += 3
	case signals.CPUCores >= 4:
		score += 2
	case signals.CPUCores >= 2:
		score++
	}

	switch {
	case signals.DeviceMemoryGB >= 8:
		score += 3
	case signals.DeviceMemoryGB >= 4:
		score += 2
	case signals.DeviceMemoryGB >= 2:
		score++
	}

	switch {
	case signals.HeapCeilingBytes >= 4*1024*1024*1024:
		score += 2
	case signals.HeapCeilingBytes >= 2*1024*1024*1024:
		score++
	}

	if signals.ParallelRaster {
		score++
	}
	if signals.WorkerThreads {
		score++
	}
	if signals.SharedMemory {
		score++
	}

	switch {
	case score >= 10:
		return pixelwise.TierUltra
	case score >= 7:
		return pixelwise.TierHigh
	case score >= 4:
		return pixelwise.TierMedium
	default:
		return pixelwise.TierLow
	}
}

// Tier ceilings for the safe resolution, as 16:9 pixel counts.
var tierPixelCeilings = map[pixelwise.PerformanceTier]int64{
	pixelwise.TierLow:    1024 * 768,
	pixelwise.TierMedium: 1920 * 1080,
	pixelwise.TierHigh:   2560 * 1440,
	pixelwise.TierUltra:  3840 * 2160,
}

// Recommend derives the DPI envelope and the maximum safe resolution a
// device should attempt. The safe surface is 30% of the heap ceiling at 4
// bytes per pixel, further clamped by the performance tier.
func Recommend(caps Capabilities) Recommendation {
	envelope := dpiEnvelope(caps)

	budgetPixels := int64(float64(caps.Memory.HeapCeilingBytes) * 0.3 / 4)
	if ceiling, ok := tierPixelCeilings[caps.PerformanceTier]; ok && budgetPixels > ceiling {
		budgetPixels = ceiling
	}
	if budgetPixels < 1 {
		budgetPixels = tierPixelCeilings[pixelwise.TierLow]
	}

	// Express the pixel budget as a 16:9 surface.
	width := int(math.Sqrt(float64(budgetPixels) * 16.0 / 9.0))
	height := int(float64(width) * 9.0 / 16.0)

	return Recommendation{
		Envelope:      envelope,
		MaxSafeWidth:  width,
		MaxSafeHeight: height,
	}
}

// dpiEnvelope maps a device type to its usable DPI range, scaled by pixel
// density and clamped to the supported domain.
func dpiEnvelope(caps Capabilities) DPIEnvelope {
	var envelope DPIEnvelope
	switch caps.DeviceType {
	case pixelwise.DeviceMobile:
		envelope = DPIEnvelope{Min: 200, Optimal: 250, Max: 300}
	case pixelwise.DeviceTablet:
		envelope = DPIEnvelope{Min: 150, Optimal: 220, Max: 300}
	case pixelwise.DeviceLaptop:
		envelope = DPIEnvelope{Min: 96, Optimal: 150, Max: 300}
	default:
		envelope = DPIEnvelope{Min: 96, Optimal: 200, Max: 600}
	}

	ratio := caps.PixelDensity.Ratio
	if ratio > 1.0 {
		scale := math.Min(ratio, 2.0)
		envelope.Optimal = clampDPI(int(math.Round(float64(envelope.Optimal) * scale)))
		envelope.Max = clampDPI(int(math.Round(float64(envelope.Max) * scale)))
	}

	// Cellular links push toward smaller exports.
	if caps.NetworkKind == "cellular" && envelope.Max > envelope.Optimal {
		envelope.Max = envelope.Optimal
	}

	return envelope
}

// clampDPI bounds a DPI value to the supported domain.
func clampDPI(dpi int) int {
	if dpi < units.MinDPI {
		return units.MinDPI
	}
	if dpi > units.MaxDPI {
		return units.MaxDPI
	}
	return dpi
}
