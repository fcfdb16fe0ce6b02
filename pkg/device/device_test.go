package device

import (
	"testing"
	"time"

	"github.com/alde/pixelwise/pkg/pixelwise"
)

func desktopSignals() Signals {
	return Signals{
		Platform:         "linux",
		ScreenWidth:      2560,
		ScreenHeight:     1440,
		PixelDensity:     1.0,
		CPUCores:         8,
		DeviceMemoryGB:   16,
		HeapCeilingBytes: 4 * 1024 * 1024 * 1024,
		ParallelRaster:   true,
		WorkerThreads:    true,
		SharedMemory:     true,
		OffscreenRender:  true,
	}
}

func TestClassifyPlatformSignalWins(t *testing.T) {
	signals := desktopSignals()
	signals.Platform = "android"
	// A large screen must not override the explicit platform signal.
	signals.ScreenWidth = 1920

	caps := Classify(signals)
	if caps.DeviceType != pixelwise.DeviceMobile {
		t.Errorf("Expected mobile from platform signal, got %v", caps.DeviceType)
	}

	signals.Platform = "ipados tablet"
	caps = Classify(signals)
	if caps.DeviceType != pixelwise.DeviceTablet {
		t.Errorf("Expected tablet from platform signal, got %v", caps.DeviceType)
	}
}

func TestClassifyTouchScreenThresholds(t *testing.T) {
	signals := desktopSignals()
	signals.TouchCapable = true

	signals.ScreenWidth = 768
	if caps := Classify(signals); caps.DeviceType != pixelwise.DeviceMobile {
		t.Errorf("Touch at 768px should be mobile, got %v", caps.DeviceType)
	}

	signals.ScreenWidth = 1024
	if caps := Classify(signals); caps.DeviceType != pixelwise.DeviceTablet {
		t.Errorf("Touch at 1024px should be tablet, got %v", caps.DeviceType)
	}
}

func TestClassifyNonTouchThresholds(t *testing.T) {
	signals := desktopSignals()

	signals.ScreenWidth = 1366
	if caps := Classify(signals); caps.DeviceType != pixelwise.DeviceLaptop {
		t.Errorf("Non-touch at 1366px should be laptop, got %v", caps.DeviceType)
	}

	signals.ScreenWidth = 1920
	if caps := Classify(signals); caps.DeviceType != pixelwise.DeviceDesktop {
		t.Errorf("Non-touch at 1920px should be desktop, got %v", caps.DeviceType)
	}
}

func TestClassifyTiers(t *testing.T) {
	// Everything maxed: 3+3+2+1+1+1 = 11 points.
	signals := desktopSignals()
	if caps := Classify(signals); caps.PerformanceTier != pixelwise.TierUltra {
		t.Errorf("Expected ultra tier, got %v", caps.PerformanceTier)
	}

	// Mid-range: 4 cores, 4 GB, small heap, acceleration = 2+2+1 = 5.
	signals = Signals{
		CPUCores:         4,
		DeviceMemoryGB:   4,
		HeapCeilingBytes: 1024 * 1024 * 1024,
		ParallelRaster:   true,
		ScreenWidth:      1920,
	}
	if caps := Classify(signals); caps.PerformanceTier != pixelwise.TierMedium {
		t.Errorf("Expected medium tier, got %v", caps.PerformanceTier)
	}

	// Bottom end: single core, 1 GB.
	signals = Signals{CPUCores: 1, DeviceMemoryGB: 1, ScreenWidth: 640}
	if caps := Classify(signals); caps.PerformanceTier != pixelwise.TierLow {
		t.Errorf("Expected low tier, got %v", caps.PerformanceTier)
	}
}

func TestRecommendEnvelopeByDeviceType(t *testing.T) {
	signals := desktopSignals()
	signals.Platform = "android"
	signals.PixelDensity = 1.0

	rec := Recommend(Classify(signals))
	if rec.Envelope.Min != 200 || rec.Envelope.Max != 300 {
		t.Errorf("Expected mobile envelope [200, 300], got [%d, %d]", rec.Envelope.Min, rec.Envelope.Max)
	}

	signals = desktopSignals()
	rec = Recommend(Classify(signals))
	if rec.Envelope.Min != 96 || rec.Envelope.Max != 600 {
		t.Errorf("Expected desktop envelope [96, 600], got [%d, %d]", rec.Envelope.Min, rec.Envelope.Max)
	}
}

func TestRecommendEnvelopeScalesWithDensity(t *testing.T) {
	signals := desktopSignals()
	signals.Platform = "android"
	signals.PixelDensity = 1.5

	rec := Recommend(Classify(signals))
	if rec.Envelope.Optimal != 375 {
		t.Errorf("Expected density-scaled optimal of 375, got %d", rec.Envelope.Optimal)
	}
	// 300 * 1.5 = 450 stays within the supported domain.
	if rec.Envelope.Max != 450 {
		t.Errorf("Expected density-scaled max of 450, got %d", rec.Envelope.Max)
	}
}

func TestRecommendSafeResolutionRespectsTierCeiling(t *testing.T) {
	// Huge heap but low tier: the tier ceiling must win.
	signals := Signals{
		CPUCores:         1,
		DeviceMemoryGB:   1,
		HeapCeilingBytes: 64 * 1024 * 1024 * 1024,
		ScreenWidth:      1024,
	}

	rec := Recommend(Classify(signals))
	if int64(rec.MaxSafeWidth)*int64(rec.MaxSafeHeight) > 1024*768 {
		t.Errorf("Safe resolution %dx%d exceeds the low-tier ceiling", rec.MaxSafeWidth, rec.MaxSafeHeight)
	}
}

func TestDetectorCachesBySignature(t *testing.T) {
	provider := &StaticProvider{Signals: desktopSignals()}
	detector := NewDetector(provider)

	first := detector.Detect()
	second := detector.Detect()
	if !first.DetectedAt.Equal(second.DetectedAt) {
		t.Error("Second detection should be served from cache")
	}

	// Changing a stable field invalidates the signature.
	provider.Signals.CPUCores = 2
	third := detector.Detect()
	if third.DetectedAt.Equal(first.DetectedAt) {
		t.Error("Changed signals should force reclassification")
	}
}

func TestDetectorExpiresAfterTTL(t *testing.T) {
	provider := &StaticProvider{Signals: desktopSignals()}
	detector := NewDetector(provider)

	current := time.Now()
	detector.now = func() time.Time { return current }

	first := detector.Detect()

	current = current.Add(defaultDetectionTTL + time.Second)
	second := detector.Detect()
	if second.DetectedAt.Equal(first.DetectedAt) {
		t.Error("Detection should recompute after the TTL")
	}
}

func TestDetectFreshBypassesCache(t *testing.T) {
	provider := &StaticProvider{Signals: desktopSignals()}
	detector := NewDetector(provider)

	sequence := time.Now()
	detector.now = func() time.Time {
		sequence = sequence.Add(time.Millisecond)
		return sequence
	}

	first := detector.Detect()
	second := detector.DetectFresh()
	if second.DetectedAt.Equal(first.DetectedAt) {
		t.Error("DetectFresh should not serve the cached result")
	}
}
