package preview

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alde/pixelwise/internal/cache"
	"github.com/alde/pixelwise/pkg/catalog"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/units"
)

// Preview cache defaults.
const (
	defaultCacheCapacity = 50
	defaultCacheTTL      = 10 * time.Minute

	defaultMaxWidth  = 400
	defaultMaxHeight = 400
)

// Options control preview rendering. The zero value gets the defaults.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Algorithm pixelwise.ScalingAlgorithm
}

// withDefaults fills in unset option fields.
func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = defaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = defaultMaxHeight
	}
	return o
}

// Result is one rendered preview with its derived figures.
type Result struct {
	ID                string
	DPI               int
	Width             int
	Height            int
	Image             image.Image
	QualityScore      float64
	EstimatedFileSize int64
	RenderTime        time.Duration
	Calculation       units.Calculation
	FromCache         bool
}

// Generator renders previews through a Rasterizer and caches them with a
// short TTL. Cache hits never re-invoke the rasterizer. Entries are not
// validated beyond TTL; callers must vary the source if it mutates.
type Generator struct {
	rasterizer Rasterizer
	cache      *cache.Cache[*Result]
	logger     *slog.Logger
}

// NewGenerator creates a preview generator over the given rasterizer.
func NewGenerator(rasterizer Rasterizer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		rasterizer: rasterizer,
		cache:      cache.New[*Result](defaultCacheCapacity, defaultCacheTTL),
		logger:     logger,
	}
}

// Generate renders one preview at the given DPI, serving a cached result
// when source, DPI and options are unchanged.
func (g *Generator) Generate(ctx context.Context, source image.Image, dpi int, opts Options) (*Result, error) {
	if err := units.ValidateDPI(dpi); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	bounds := source.Bounds()
	sourceW, sourceH := bounds.Dx(), bounds.Dy()
	if err := units.ValidatePixelDimension("sourceWidth", sourceW); err != nil {
		return nil, err
	}
	if err := units.ValidatePixelDimension("sourceHeight", sourceH); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%d|%dx%d|%s", sourceSignature(source), dpi, opts.MaxWidth, opts.MaxHeight, opts.Algorithm)
	if cached, ok := g.cache.Get(key); ok {
		hit := *cached
		hit.FromCache = true
		return &hit, nil
	}

	calc, err := units.PhysicalFromPixels(sourceW, sourceH, dpi, units.Inch)
	if err != nil {
		return nil, err
	}

	previewW, previewH := catalog.FitWithin(sourceW, sourceH, opts.MaxWidth, opts.MaxHeight)

	started := time.Now()
	scaled, err := g.rasterizer.Rasterize(ctx, source, previewW, previewH, opts.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("preview rasterization failed: %w", err)
	}
	elapsed := time.Since(started)

	result := &Result{
		ID:                uuid.NewString(),
		DPI:               dpi,
		Width:             previewW,
		Height:            previewH,
		Image:             scaled,
		QualityScore:      previewQuality(dpi, opts.Algorithm),
		EstimatedFileSize: units.EstimateFileSize(sourceW, sourceH, dpi),
		RenderTime:        elapsed,
		Calculation:       calc,
	}

	g.cache.Set(key, result, int64(previewW)*int64(previewH)*4)
	return result, nil
}

// CacheStats exposes the preview cache counters.
func (g *Generator) CacheStats() cache.Stats {
	return g.cache.Stats()
}

// ClearCache drops every cached preview.
func (g *Generator) ClearCache() {
	g.cache.Clear()
}

// ShrinkCache evicts least-used previews down to the target fraction of
// capacity. Called by the memory monitor under pressure.
func (g *Generator) ShrinkCache(targetFraction float64) int {
	return g.cache.Sweep() + g.cache.Shrink(targetFraction)
}

// previewQuality scores a preview from its density tier and the scaling
// algorithm used.
func previewQuality(dpi int, algorithm pixelwise.ScalingAlgorithm) float64 {
	score := 0.5

	switch {
	case dpi >= 300:
		score += 0.2
	case dpi >= 200:
		score += 0.15
	case dpi >= 150:
		score += 0.1
	case dpi >= 96:
		score += 0.05
	}

	score += algorithm.QualityContribution()
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// sourceSignature fingerprints a source surface from its bounds and a
// sparse pixel sample. Cheap rather than collision-proof: two sources that
// differ only off the sample grid will share a signature, which mirrors
// the cache's documented "caller must vary the key" contract.
func sourceSignature(source image.Image) string {
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
