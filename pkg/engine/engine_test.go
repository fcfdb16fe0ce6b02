package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/alde/pixelwise/pkg/device"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/store"
)

// desktopDetector returns a detector over a fixed high-end desktop.
func desktopDetector() *device.Detector {
	return device.NewDetector(&device.StaticProvider{Signals: device.Signals{
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
	}})
}

func newTestEngine() *Engine {
	learning := NewLearningStore(store.NewMemoryStore(), slog.Default())
	return NewEngine(desktopDetector(), learning, slog.Default())
}

func TestRecommendRejectsDegenerateSource(t *testing.T) {
	e := newTestEngine()

	_, err := e.Recommend(0, 600, pixelwise.RecommendationContext{})
	var noCandidates *pixelwise.NoCandidatesError
	if !errors.As(err, &noCandidates) {
		t.Fatalf("Expected NoCandidatesError, got %v", err)
	}

	_, err = e.Recommend(800, -1, pixelwise.RecommendationContext{})
	if !errors.As(err, &noCandidates) {
		t.Fatalf("Expected NoCandidatesError for negative height, got %v", err)
	}
}

func TestRecommendRejectsOversizedSource(t *testing.T) {
	e := newTestEngine()

	_, err := e.Recommend(20000, 600, pixelwise.RecommendationContext{})
	var outOfRange *pixelwise.OutOfRangeError
	if !errors.As(err, &outOfRange) {
		t.Fatalf("Expected OutOfRangeError, got %v", err)
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	e := newTestEngine()
	ctx := pixelwise.RecommendationContext{Purpose: pixelwise.PurposeWeb}

	first, err := e.Recommend(800, 600, ctx)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := e.Recommend(800, 600, ctx)
		if err != nil {
			t.Fatalf("Repeated Recommend failed: %v", err)
		}
		if again.DPI != first.DPI || again.Resolution != first.Resolution || again.Score != first.Score {
			t.Fatalf("Recommendation changed between identical calls: %+v vs %+v", first, again)
		}
		if len(again.Alternatives) != len(first.Alternatives) {
			t.Fatal("Alternative count changed between identical calls")
		}
		for j := range again.Alternatives {
			if again.Alternatives[j].DPI != first.Alternatives[j].DPI {
				t.Fatalf("Alternative ranking changed at index %d", j)
			}
		}
	}
}

func TestPrintBeatsWebOnDPI(t *testing.T) {
	e := newTestEngine()

	print, err := e.Recommend(800, 600, pixelwise.RecommendationContext{Purpose: pixelwise.PurposePrint})
	if err != nil {
		t.Fatalf("Print recommendation failed: %v", err)
	}
	web, err := e.Recommend(800, 600, pixelwise.RecommendationContext{Purpose: pixelwise.PurposeWeb})
	if err != nil {
		t.Fatalf("Web recommendation failed: %v", err)
	}

	if print.DPI < 200 {
		t.Errorf("Print recommendation should be at least 200 DPI, got %d", print.DPI)
	}
	if print.DPI <= web.DPI {
		t.Errorf("Print DPI %d should exceed web DPI %d", print.DPI, web.DPI)
	}
}

func TestRecommendReturnsAlternativesAndRationale(t *testing.T) {
	e := newTestEngine()

	result, err := e.Recommend(1920, 1080, pixelwise.RecommendationContext{Purpose: pixelwise.PurposeWeb})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if len(result.Alternatives) != 3 {
		t.Errorf("Expected 3 alternatives, got %d", len(result.Alternatives))
	}
	if len(result.Rationale) == 0 {
		t.Error("Expected a populated rationale")
	}
	for _, alt := range result.Alternatives {
		if alt.Score > result.Score {
			t.Errorf("Alternative at %d DPI outscores the winner", alt.DPI)
		}
	}
}

func TestLearningIncreasesNearbyScores(t *testing.T) {
	kv := store.NewMemoryStore()
	learning := NewLearningStore(kv, slog.Default())
	e := NewEngine(desktopDetector(), learning, slog.Default())

	ctx := pixelwise.RecommendationContext{Purpose: pixelwise.PurposePrint}

	baseline, err := e.Recommend(800, 600, ctx)
	if err != nil {
		t.Fatalf("Baseline recommendation failed: %v", err)
	}
	baselineScore := scoreAtDPI(t, baseline, 300)

	for i := 0; i < 20; i++ {
		e.RecordChoice(ctx, ChosenSettings{DPI: 300, Width: 2480, Height: 3508}, 0.95, nil)
	}

	adjusted, err := e.Recommend(800, 600, ctx)
	if err != nil {
		t.Fatalf("Adjusted recommendation failed: %v", err)
	}
	if !adjusted.AdjustedByLearning {
		t.Error("Expected recommendation to be marked as learning-adjusted")
	}

	adjustedScore := scoreAtDPI(t, adjusted, 300)
	if adjustedScore <= baselineScore {
		t.Errorf("High-satisfaction records at 300 DPI should raise the 300 DPI score: %g -> %g",
			baselineScore, adjustedScore)
	}

	// Clearing the store restores the baseline ranking.
	learning.Clear()
	cleared, err := e.Recommend(800, 600, ctx)
	if err != nil {
		t.Fatalf("Post-clear recommendation failed: %v", err)
	}
	if scoreAtDPI(t, cleared, 300) != baselineScore {
		t.Error("Clearing the learning store should restore baseline scores")
	}
}

// scoreAtDPI finds the best score among the winner and alternatives at the
// given DPI.
func scoreAtDPI(t *testing.T, result RecommendationResult, dpi int) float64 {
	t.Helper()

	if result.DPI == dpi {
		return result.Score
	}
	for _, alt := range result.Alternatives {
		if alt.DPI == dpi {
			return alt.Score
		}
	}
	t.Fatalf("No candidate at %d DPI in result", dpi)
	return 0
}

func TestLearningSurvivesBrokenStore(t *testing.T) {
	learning := NewLearningStore(&failingStore{}, slog.Default())
	e := NewEngine(desktopDetector(), learning, slog.Default())

	ctx := pixelwise.RecommendationContext{Purpose: pixelwise.PurposeWeb}
	e.RecordChoice(ctx, ChosenSettings{DPI: 96, Width: 800, Height: 600}, 0.8, nil)

	if learning.Len() != 1 {
		t.Errorf("Record should be kept in memory despite store failure, got %d records", learning.Len())
	}

	if _, err := e.Recommend(800, 600, ctx); err != nil {
		t.Errorf("Recommendation should work without durable storage: %v", err)
	}
}

func TestLearningStoreCapsRecords(t *testing.T) {
	learning := NewLearningStore(store.NewMemoryStore(), slog.Default())
	ctx := pixelwise.RecommendationContext{Purpose: pixelwise.PurposeWeb}

	for i := 0; i < maxLearningRecords+25; i++ {
		learning.RecordChoice(ctx, ChosenSettings{DPI: 96, Width: 800, Height: 600}, 0.5, nil)
	}

	if learning.Len() != maxLearningRecords {
		t.Errorf("Expected store capped at %d records, got %d", maxLearningRecords, learning.Len())
	}
}

func TestLearningStorePersistsAcrossInstances(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := pixelwise.RecommendationContext{Purpose: pixelwise.PurposeMobile}

	first := NewLearningStore(kv, slog.Default())
	first.RecordChoice(ctx, ChosenSettings{DPI: 250, Width: 750, Height: 1334}, 0.9, nil)

	second := NewLearningStore(kv, slog.Default())
	if second.Len() != 1 {
		t.Fatalf("Expected persisted record to load, got %d records", second.Len())
	}

	avg, ok := second.AverageSatisfaction(pixelwise.PurposeMobile, 260)
	if !ok {
		t.Fatal("Expected a satisfaction match within 50 DPI")
	}
	if avg != 0.9 {
		t.Errorf("Expected average satisfaction 0.9, got %g", avg)
	}

	if _, ok := second.AverageSatisfaction(pixelwise.PurposeMobile, 350); ok {
		t.Error("Choices more than 50 DPI away should not match")
	}
	if _, ok := second.AverageSatisfaction(pixelwise.PurposeWeb, 250); ok {
		t.Error("Choices for another purpose should not match")
	}
}

func TestDetectDeviceWithoutDetector(t *testing.T) {
	e := NewEngine(nil, NewLearningStore(store.NewMemoryStore(), slog.Default()), slog.Default())

	result := e.DetectDevice()
	if result.Capabilities.DeviceType != pixelwise.DeviceUnknown {
		t.Errorf("Detector-less engine should report an unknown device, got %s",
			result.Capabilities.DeviceType)
	}
	if !result.DetectedAt.IsZero() {
		t.Error("Detector-less engine should not report a detection time")
	}
}

func TestMinQualityConstraintChangesRanking(t *testing.T) {
	e := newTestEngine()

	unconstrained, err := e.Recommend(800, 600, pixelwise.RecommendationContext{
		Purpose: pixelwise.PurposeWeb,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	constrained, err := e.Recommend(800, 600, pixelwise.RecommendationContext{
		Purpose:     pixelwise.PurposeWeb,
		Constraints: pixelwise.Constraints{MinQuality: 0.9},
	})
	if err != nil {
		t.Fatalf("Constrained recommend failed: %v", err)
	}

	if constrained.Score == unconstrained.Score && constrained.DPI == unconstrained.DPI &&
		constrained.Metrics == unconstrained.Metrics {
		t.Error("MinQuality constraint should change the scored outcome")
	}

	// Every ranked candidate either meets the minimum or carries the floor.
	checkQuality := func(quality float64, label string) {
		if quality < 0.9 && quality != 0.1 {
			t.Errorf("%s quality %g violates the minimum without being floored", label, quality)
		}
	}
	checkQuality(constrained.Metrics.Quality, "winner")
	for _, alt := range constrained.Alternatives {
		checkQuality(alt.Metrics.Quality, fmt.Sprintf("alternative at %d DPI", alt.DPI))
	}

	// A floored winner surfaces the fallback warning.
	if constrained.Metrics.Quality < 0.9 {
		found := false
		for _, warning := range constrained.Warnings {
			if strings.Contains(warning, "minimum quality") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected a minimum-quality warning, got %v", constrained.Warnings)
		}
	}
}

func TestCustomCandidateIncluded(t *testing.T) {
	e := newTestEngine()

	ctx := pixelwise.RecommendationContext{
		Purpose: pixelwise.PurposeWeb,
		Preferences: pixelwise.UserPreferences{
			CustomDPI:    150,
			CustomWidth:  1000,
			CustomHeight: 1000,
		},
	}

	result, err := e.Recommend(800, 600, ctx)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	found := result.DPI == 150 && result.Resolution == (Resolution{Width: 1000, Height: 1000})
	for _, alt := range result.Alternatives {
		if alt.DPI == 150 && alt.Resolution == (Resolution{Width: 1000, Height: 1000}) {
			found = true
		}
	}
	if !found {
		t.Error("Custom candidate should appear in the winner or alternatives")
	}
}

func TestMaxDimensionsShrinkDeviceCandidates(t *testing.T) {
	e := newTestEngine()

	ctx := pixelwise.RecommendationContext{
		Purpose:     pixelwise.PurposeWeb,
		Constraints: pixelwise.Constraints{MaxWidth: 400, MaxHeight: 400},
	}

	result, err := e.Recommend(1600, 1200, ctx)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if result.Resolution.Width > 400 || result.Resolution.Height > 400 {
		t.Errorf("Winner %dx%d exceeds the caller's maximum",
			result.Resolution.Width, result.Resolution.Height)
	}
	for _, alt := range result.Alternatives {
		if alt.Source == "custom" {
			continue
		}
		if alt.Resolution.Width > 400 || alt.Resolution.Height > 400 {
			t.Errorf("Candidate %dx%d from %s exceeds the caller's maximum",
				alt.Resolution.Width, alt.Resolution.Height, alt.Source)
		}
	}
}

// failingStore always errors, modelling an unavailable persistence backend.
type failingStore struct{}

func (f *failingStore) Get(key string) ([]byte, error) {
	return nil, fmt.Errorf("backend offline")
}

func (f *failingStore) Set(key string, value []byte) error {
	return fmt.Errorf("backend offline")
}

func (f *failingStore) Remove(key string) error {
	return fmt.Errorf("backend offline")
}
