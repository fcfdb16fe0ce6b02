package main

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/alde/pixelwise/pkg/device"
	"github.com/alde/pixelwise/pkg/encode"
	"github.com/alde/pixelwise/pkg/engine"
	"github.com/alde/pixelwise/pkg/optimize"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/preview"
	"github.com/alde/pixelwise/pkg/store"
)

// integrationSurface builds a synthetic photo-like surface.
func integrationSurface(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: uint8(((x + y) * 255) / (width + height)),
				A: 255,
			})
		}
	}
	return img
}

func TestIntegrationRecommendPreviewOptimize(t *testing.T) {
	tempDir := t.TempDir()
	source := integrationSurface(800, 600)

	// Recommendation with a file-backed feedback store.
	fileStore, err := store.NewFileStore(filepath.Join(tempDir, "feedback"))
	if err != nil {
		t.Fatalf("Failed to create feedback store: %v", err)
	}
	learning := engine.NewLearningStore(fileStore, slog.Default())
	detector := device.NewDetector(device.NewHostProvider())
	eng := engine.NewEngine(detector, learning, slog.Default())

	recommendation, err := eng.Recommend(800, 600, pixelwise.RecommendationContext{
		Purpose: pixelwise.PurposeWeb,
	})
	if err != nil {
		t.Fatalf("Recommendation failed: %v", err)
	}
	if recommendation.DPI <= 0 {
		t.Fatal("Recommendation produced no DPI")
	}
	if recommendation.Resolution.Width <= 0 || recommendation.Resolution.Height <= 0 {
		t.Fatal("Recommendation produced no resolution")
	}

	// Feedback round trip through the file store.
	eng.RecordChoice(
		pixelwise.RecommendationContext{Purpose: pixelwise.PurposeWeb},
		engine.ChosenSettings{
			DPI:    recommendation.DPI,
			Width:  recommendation.Resolution.Width,
			Height: recommendation.Resolution.Height,
		},
		0.9, nil,
	)
	reloaded := engine.NewLearningStore(fileStore, slog.Default())
	if reloaded.Len() != 1 {
		t.Errorf("Expected 1 persisted feedback record, got %d", reloaded.Len())
	}

	// Preview comparison at the recommended DPI plus neighbors.
	generator := preview.NewGenerator(preview.NewImageRasterizer(), slog.Default())
	comparison, err := generator.Compare(context.Background(), source,
		[]int{96, 150, recommendation.DPI}, preview.Options{})
	if err != nil {
		t.Fatalf("Preview comparison failed: %v", err)
	}
	if comparison.Recommended == nil {
		t.Fatal("Comparison selected no recommended preview")
	}

	// Optimization and encoding of the final surface.
	monitor := optimize.NewMemoryMonitor(512*1024*1024, slog.Default())
	pipeline := optimize.NewPipeline(monitor, slog.Default())
	optimized, err := pipeline.Optimize(context.Background(), source, optimize.DefaultConfig(optimize.ModeBalanced))
	if err != nil {
		t.Fatalf("Optimization failed: %v", err)
	}
	if optimized.QualityScore <= 0 {
		t.Error("Optimization produced no quality score")
	}

	outputBase := filepath.Join(tempDir, "surface.png")
	outputPath, size, err := encode.NewEncoder(encode.FormatJPEG).EncodeFile(outputBase, optimized.Image, optimize.ModeBalanced)
	if err != nil {
		t.Fatalf("Encoding failed: %v", err)
	}
	if size == 0 {
		t.Error("Encoded output is empty")
	}
	if filepath.Ext(outputPath) != ".jpg" {
		t.Errorf("Expected .jpg output, got %s", outputPath)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("Encoded output missing: %v", err)
	}

	// Round trip: the encoded file opens again.
	decoded, err := imaging.Open(outputPath)
	if err != nil {
		t.Fatalf("Failed to reopen encoded output: %v", err)
	}
	if decoded.Bounds().Dx() != 800 || decoded.Bounds().Dy() != 600 {
		t.Errorf("Decoded output is %dx%d, expected 800x600",
			decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestIntegrationConstrainedRecommendation(t *testing.T) {
	eng := engine.NewEngine(
		device.NewDetector(device.NewHostProvider()),
		engine.NewLearningStore(store.NewMemoryStore(), slog.Default()),
		slog.Default(),
	)

	result, err := eng.Recommend(4000, 3000, pixelwise.RecommendationContext{
		Purpose: pixelwise.PurposePrint,
		Constraints: pixelwise.Constraints{
			MaxWidth:  2000,
			MaxHeight: 2000,
		},
	})
	if err != nil {
		t.Fatalf("Recommendation failed: %v", err)
	}

	if result.Resolution.Width > 2000 || result.Resolution.Height > 2000 {
		t.Errorf("Recommendation %dx%d exceeds the 2000x2000 constraint",
			result.Resolution.Width, result.Resolution.Height)
	}
}
