// Package device classifies the host device and derives the DPI and
// resolution envelope it can safely handle.
package device

import (
	"runtime"
)

// Signals are the raw capability readings a provider collects from its
// environment. The detector never probes the environment itself; it only
// interprets signals.
type Signals struct {
	// Platform identifier, e.g. "linux", "android", "ipad".
	Platform string

	TouchCapable bool
	ScreenWidth  int
	ScreenHeight int

	// PixelDensity is the device pixel ratio relative to the 96 DPI
	// baseline (1.0 for a standard desktop display).
	PixelDensity float64

	CPUCores         int
	DeviceMemoryGB   float64
	HeapCeilingBytes uint64

	// Network hint: "wifi", "ethernet", "cellular" or "" when unknown.
	NetworkKind string

	// Feature probes.
	ParallelRaster  bool
	WorkerThreads   bool
	SharedMemory    bool
	OffscreenRender bool
}

// CapabilityProvider supplies capability signals for the host environment.
// The real implementation reads the Go runtime; tests inject fixtures.
type CapabilityProvider interface {
	Collect() Signals
}

// HostProvider reads capability signals from the Go runtime. Screen
// geometry is not observable from a headless process, so it reports a
// conventional desktop surface; embedders with a real display should wrap
// this provider and overwrite the screen fields.
type HostProvider struct {
	// ScreenWidth/ScreenHeight override the default surface when set.
	ScreenWidth  int
	ScreenHeight int
	PixelDensity float64
}

// NewHostProvider creates a provider with conventional desktop defaults.
func NewHostProvider() *HostProvider {
	return &HostProvider{}
}

// Collect reads the runtime and fills in host signals.
func (p *HostProvider) Collect() Signals {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	width := p.ScreenWidth
	height := p.ScreenHeight
	if width == 0 {
		width = 1920
	}
	if height == 0 {
		height = 1080
	}

	density := p.PixelDensity
	if density == 0 {
		density = 1.0
	}

	cores := runtime.NumCPU()
	heapCeiling := stats.Sys
	if heapCeiling < 512*1024*1024 {
		// The runtime grows its reservation lazily; assume at least a
		// conventional half-gigabyte working budget.
		heapCeiling = 512 * 1024 * 1024
	}

	return Signals{
		Platform:         runtime.GOOS,
		TouchCapable:     runtime.GOOS == "android" || runtime.GOOS == "ios",
		ScreenWidth:      width,
		ScreenHeight:     height,
		PixelDensity:     density,
		CPUCores:         cores,
		DeviceMemoryGB:   float64(heapCeiling) / (1024 * 1024 * 1024) * 4,
		HeapCeilingBytes: heapCeiling,
		NetworkKind:      "",
		ParallelRaster:   cores > 1,
		WorkerThreads:    true,
		SharedMemory:     true,
		OffscreenRender:  true,
	}
}

// StaticProvider returns fixed signals. Used by tests and by callers that
// already know their device profile.
type StaticProvider struct {
	Signals Signals
}

// Collect returns the fixed signals.
func (p *StaticProvider) Collect() Signals {
	return p.Signals
}
