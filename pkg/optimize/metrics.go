package optimize

import (
	"image"
	"math"
)

// Metrics are the objective quality figures computed after optimization.
// PSNR and the SSIM proxy compare the optimized surface against the
// original; the remaining stats describe the optimized surface alone.
type Metrics struct {
	// PSNR in decibels over RGB channels; +Inf for identical surfaces.
	PSNR float64

	// SSIM is a bounded proxy, min(1, PSNR/40). It approximates relative
	// structural similarity and is not a perceptual model.
	SSIM float64

	UniqueColors int
	AvgLuminance float64
	Contrast     float64
	Sharpness    float64
}

// computeMetrics fills in every metric for an optimized surface.
func computeMetrics(original, optimized *image.NRGBA) Metrics {
	psnr := computePSNR(original, optimized)

	ssim := 1.0
	if !math.IsInf(psnr, 1) {
		ssim = math.Min(1.0, psnr/40.0)
	}

	luminance := luminancePlane(optimized)

	return Metrics{
		PSNR:         psnr,
		SSIM:         ssim,
		UniqueColors: countUniqueColors(optimized),
		AvgLuminance: averageOf(luminance),
		Contrast:     contrastOf(luminance),
		Sharpness:    sharpnessOf(luminance, optimized.Bounds().Dx(), optimized.Bounds().Dy()),
	}
}

// computePSNR returns 20*log10(255/sqrt(MSE)) over the RGB channels, or
// +Inf when the surfaces are identical.
func computePSNR(original, optimized *image.NRGBA) float64 {
	if original.Bounds() != optimized.Bounds() {
		return 0
	}

	var sum float64
	count := 0
	for i := 0; i < len(original.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			diff := float64(original.Pix[i+c]) - float64(optimized.Pix[i+c])
			sum += diff * diff
			count++
		}
	}

	if count == 0 {
		return 0
	}
	mse := sum / float64(count)
	if mse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(255/math.Sqrt(mse))
}

// countUniqueColors counts distinct RGB triples in the surface.
func countUniqueColors(img *image.NRGBA) int {
	seen := make(map[uint32]struct{})
	for i := 0; i < len(img.Pix); i += 4 {
		key := uint32(img.Pix[i])<<16 | uint32(img.Pix[i+1])<<8 | uint32(img.Pix[i+2])
		seen[key] = struct{}{}
	}
	return len(seen)
}

// luminancePlane extracts per-pixel luminance in [0, 255].
func luminancePlane(img *image.NRGBA) []float64 {
	plane := make([]float64, len(img.Pix)/4)
	for i, j := 0, 0; i < len(img.Pix); i, j = i+4, j+1 {
		plane[j] = 0.299*float64(img.Pix[i]) +
			0.587*float64(img.Pix[i+1]) +
			0.114*float64(img.Pix[i+2])
	}
	return plane
}

// averageOf returns the mean of a luminance plane.
func averageOf(plane []float64) float64 {
	if len(plane) == 0 {
		return 0
	}
	var sum float64
	for _, v := range plane {
		sum += v
	}
	return sum / float64(len(plane))
}

// contrastOf returns the normalized luminance spread, (max-min)/255.
func contrastOf(plane []float64) float64 {
	if len(plane) == 0 {
		return 0
	}
	min, max := plane[0], plane[0]
	for _, v := range plane[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return (max - min) / 255.0
}

// sharpnessOf scores edge content from the mean gradient magnitude of the
// luminance plane, normalized into [0, 1].
func sharpnessOf(plane []float64, width, height int) float64 {
	if width < 2 || height < 2 {
		return 0
	}

	var sum float64
	count := 0
	for y := 0; y < height-1; y++ {
		for x := 0; x < width-1; x++ {
			idx := y*width + x
			gx := plane[idx+1] - plane[idx]
			gy := plane[idx+width] - plane[idx]
			sum += math.Abs(gx) + math.Abs(gy)
			count++
		}
	}

	// Two gradients of up to 255 each.
	return sum / float64(count) / 510.0
}

// qualityScore blends the metrics into one bounded figure: base 0.5 plus
// PSNR, SSIM, sharpness and contrast contributions, capped at 1.0.
func qualityScore(m Metrics) float64 {
	score := 0.5

	switch {
	case m.PSNR > 30:
		score += 0.2
	case m.PSNR > 20:
		score += 0.1
	}

	score += m.SSIM * 0.2
	score += math.Min(0.1, m.Sharpness*0.5)
	score += math.Min(0.1, m.Contrast*0.3)

	if score > 1.0 {
		score = 1.0
	}
	return score
}
