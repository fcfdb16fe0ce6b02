// Package preview renders small comparison previews for candidate DPIs and
// caches them keyed by source, density and options.
package preview

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/alde/pixelwise/pkg/pixelwise"
)

// Rasterizer scales a source surface to a target size. The engine treats
// rasterization as an opaque capability; it only chooses the algorithm
// hint.
type Rasterizer interface {
	Rasterize(ctx context.Context, source image.Image, width, height int, algorithm pixelwise.ScalingAlgorithm) (image.Image, error)
}

// ImageRasterizer is the in-process Rasterizer built on x/image kernels,
// with Lanczos delegated to the imaging package.
type ImageRasterizer struct{}

// NewImageRasterizer creates the default in-process rasterizer.
func NewImageRasterizer() *ImageRasterizer {
	return &ImageRasterizer{}
}

// Rasterize scales the source to width x height with the hinted algorithm.
func (r *ImageRasterizer) Rasterize(ctx context.Context, source image.Image, width, height int, algorithm pixelwise.ScalingAlgorithm) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("target size must be positive, got %dx%d", width, height)
	}

	if algorithm == pixelwise.ScaleLanczos {
		return imaging.Resize(source, width, height, imaging.Lanczos), nil
	}

	var scaler draw.Scaler
	switch algorithm {
	case pixelwise.ScaleNearest:
		scaler = draw.NearestNeighbor
	case pixelwise.ScaleBilinear:
		scaler = draw.ApproxBiLinear
	case pixelwise.ScaleBicubic:
		scaler = draw.CatmullRom
	default:
		scaler = draw.ApproxBiLinear
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), source, source.Bounds(), draw.Over, nil)
	return dst, nil
}
