package device

import (
	"fmt"
	"sync"
	"time"
)

// Default lifetime for a cached detection. The cache is not invalidated
// early on environment change; callers needing freshness use DetectFresh.
const defaultDetectionTTL = 5 * time.Minute

// DetectionResult is the full outcome of one device detection.
type DetectionResult struct {
	Capabilities Capabilities
	Recommended  Recommendation
	DetectedAt   time.Time
}

// Detector classifies the host device through a CapabilityProvider and
// caches the result for a short time keyed by the stable device signals.
type Detector struct {
	provider CapabilityProvider
	ttl      time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	signature string
	cached    DetectionResult
	cachedAt  time.Time
}

// NewDetector creates a detector over the given provider.
func NewDetector(provider CapabilityProvider) *Detector {
	return &Detector{
		provider: provider,
		ttl:      defaultDetectionTTL,
		now:      time.Now,
	}
}

// Detect returns the classified device, serving a cached result while the
// signal signature is unchanged and the entry is younger than the TTL.
func (d *Detector) Detect() DetectionResult {
	signals := d.provider.Collect()
	signature := signalSignature(signals)

	d.mu.RLock()
	if signature == d.signature && d.now().Sub(d.cachedAt) < d.ttl {
		result := d.cached
		d.mu.RUnlock()
		return result
	}
	d.mu.RUnlock()

	return d.detect(signals, signature)
}

// DetectFresh bypasses the detection cache and reclassifies immediately.
func (d *Detector) DetectFresh() DetectionResult {
	signals := d.provider.Collect()
	return d.detect(signals, signalSignature(signals))
}

// detect runs classification and stores the result as the cached entry.
func (d *Detector) detect(signals Signals, signature string) DetectionResult {
	caps := Classify(signals)
	result := DetectionResult{
		Capabilities: caps,
		Recommended:  Recommend(caps),
		DetectedAt:   d.now(),
	}

	d.mu.Lock()
	d.signature = signature
	d.cached = result
	d.cachedAt = result.DetectedAt
	d.mu.Unlock()

	return result
}

// signalSignature builds the cache key from the stable device fields.
// Volatile readings (network hint) are deliberately excluded so transient
// changes do not churn the cache.
func signalSignature(signals Signals) string {
	return fmt.Sprintf("%s|%t|%dx%d|%.2f|%d|%.1f|%d|%t%t%t%t",
		signals.Platform,
		signals.TouchCapable,
		signals.ScreenWidth, signals.ScreenHeight,
		signals.PixelDensity,
		signals.CPUCores,
		signals.DeviceMemoryGB,
		signals.HeapCeilingBytes,
		signals.ParallelRaster,
		signals.WorkerThreads,
		signals.SharedMemory,
		signals.OffscreenRender,
	)
}
