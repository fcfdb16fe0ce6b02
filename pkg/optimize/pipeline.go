package optimize

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"

	"github.com/alde/pixelwise/internal/cache"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/units"
)

// Optimized-surface cache bounds.
const (
	resultCacheCapacity = 100
	resultCacheTTL      = 30 * time.Minute
)

// Result is one completed optimization: the new surface, its objective
// metrics and the composite quality score.
type Result struct {
	Image         *image.NRGBA
	Metrics       Metrics
	QualityScore  float64
	AppliedStages []string
	Duration      time.Duration
	FromCache     bool
}

// Pipeline runs the fixed optimization stage sequence under the memory
// monitor's budget and caches optimized surfaces.
type Pipeline struct {
	monitor *MemoryMonitor
	cache   *cache.Cache[*Result]
	logger  *slog.Logger
}

// NewPipeline creates a pipeline over the given memory monitor and wires
// its result cache into the monitor's pressure cleanups.
func NewPipeline(monitor *MemoryMonitor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if monitor == nil {
		monitor = NewMemoryMonitor(0, logger)
	}

	p := &Pipeline{
		monitor: monitor,
		cache:   cache.New[*Result](resultCacheCapacity, resultCacheTTL),
		logger:  logger,
	}
	monitor.RegisterCleanup(func() int {
		return p.cache.Sweep() + p.cache.Shrink(0.5)
	})
	return p
}

// Optimize runs the stage sequence on a copy of the source surface. The
// source is never mutated. Stages execute strictly in order; between
// stages the pipeline checks for cancellation and the render timeout.
func (p *Pipeline) Optimize(ctx context.Context, source image.Image, cfg Config) (*Result, error) {
	bounds := source.Bounds()
	if err := units.ValidatePixelDimension("width", bounds.Dx()); err != nil {
		return nil, err
	}
	if err := units.ValidatePixelDimension("height", bounds.Dy()); err != nil {
		return nil, err
	}

	key := surfaceSignature(source) + "|" + cfg.Signature()
	if cached, ok := p.cache.Get(key); ok {
		hit := *cached
		hit.FromCache = true
		return &hit, nil
	}

	// Budget: original + working + result copies at 4 bytes per pixel.
	required := uint64(bounds.Dx()) * uint64(bounds.Dy()) * 4 * 3
	if err := p.monitor.Ensure(required); err != nil {
		return nil, err
	}

	if cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RenderTimeout)
		defer cancel()
	}

	started := time.Now()
	original := imaging.Clone(source)
	working := original

	stages := []struct {
		name  string
		apply func(*image.NRGBA) *image.NRGBA
	}{
		{"tone", func(img *image.NRGBA) *image.NRGBA { return applyTone(img, cfg.Tone) }},
		{"noise-reduction", func(img *image.NRGBA) *image.NRGBA { return applyNoiseReduction(img, cfg.Noise) }},
		{"sharpen", func(img *image.NRGBA) *image.NRGBA { return applySharpen(img, cfg.Sharpen) }},
		{"color-reduction", func(img *image.NRGBA) *image.NRGBA { return applyColorReduction(img, cfg.Color) }},
		{"compression-proxy", func(img *image.NRGBA) *image.NRGBA { return applyCompressionProxy(img, cfg.Compression) }},
	}

	var applied []string
	for _, stage := range stages {
		if err := p.checkDeadline(ctx, cfg); err != nil {
			return nil, err
		}
		next := stage.apply(working)
		if next != working {
			applied = append(applied, stage.name)
			working = next
		}
	}

	metrics := computeMetrics(original, working)
	result := &Result{
		Image:         working,
		Metrics:       metrics,
		QualityScore:  qualityScore(metrics),
		AppliedStages: applied,
		Duration:      time.Since(started),
	}

	p.cache.Set(key, result, int64(bounds.Dx())*int64(bounds.Dy())*4)
	return result, nil
}

// CacheStats exposes the optimized-surface cache counters.
func (p *Pipeline) CacheStats() cache.Stats {
	return p.cache.Stats()
}

// ClearCache drops every cached optimization result.
func (p *Pipeline) ClearCache() {
	p.cache.Clear()
}

// checkDeadline maps a timed-out context onto RenderTimeoutError and
// passes other cancellations through.
func (p *Pipeline) checkDeadline(ctx context.Context, cfg Config) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if err == context.DeadlineExceeded && cfg.RenderTimeout > 0 {
		return &pixelwise.RenderTimeoutError{Timeout: cfg.RenderTimeout.String()}
	}
	return err
}

// surfaceSignature fingerprints a surface from its bounds and a sparse
// pixel sample, mirroring the preview cache's keying contract.
func surfaceSignature(source image.Image) string {
	bounds := source.Bounds()
	hash := fnv.New64a()
	fmt.Fprintf(hash, "%dx%d|", bounds.Dx(), bounds.Dy())

	const grid = 16
	stepX := bounds.Dx() / grid
	stepY := bounds.Dy() / grid
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, a := source.At(x, y).RGBA()
			fmt.Fprintf(hash, "%d,%d,%d,%d;", r, g, b, a)
		}
	}

	return fmt.Sprintf("%x", hash.Sum64())
}
