package optimize

import (
	"image"

	"github.com/disintegration/imaging"
)

// Stage order is fixed: tone, noise reduction, sharpening, color
// reduction, compression proxy. A stage runs only when its algorithm is
// configured; every stage produces a new surface and never mutates its
// input.

// applyTone runs levels/gamma adjustments.
func applyTone(img *image.NRGBA, cfg ToneConfig) *image.NRGBA {
	switch cfg.Algorithm {
	case ToneLevels:
		out := img
		if cfg.Brightness != 0 {
			out = imaging.AdjustBrightness(out, cfg.Brightness)
		}
		if cfg.Contrast != 0 {
			out = imaging.AdjustContrast(out, cfg.Contrast)
		}
		if out == img {
			out = imaging.Clone(img)
		}
		return out
	case ToneGamma:
		gamma := cfg.Gamma
		if gamma <= 0 {
			gamma = 1.0
		}
		return imaging.AdjustGamma(img, gamma)
	default:
		return img
	}
}

// applyNoiseReduction runs a mild gaussian blur to suppress raster noise.
func applyNoiseReduction(img *image.NRGBA, cfg NoiseConfig) *image.NRGBA {
	if cfg.Algorithm != NoiseGaussian || cfg.Sigma <= 0 {
		return img
	}
	return imaging.Blur(img, cfg.Sigma)
}

// applySharpen runs unsharp sharpening.
func applySharpen(img *image.NRGBA, cfg SharpenConfig) *image.NRGBA {
	if cfg.Algorithm != SharpenUnsharp || cfg.Sigma <= 0 {
		return img
	}
	return imaging.Sharpen(img, cfg.Sigma)
}

// applyColorReduction posterizes each channel to a fixed level count,
// shrinking the palette an encoder has to represent.
func applyColorReduction(img *image.NRGBA, cfg ColorConfig) *image.NRGBA {
	if cfg.Algorithm != ColorPosterize || cfg.Levels < 2 {
		return img
	}

	out := imaging.Clone(img)
	levels := cfg.Levels
	step := 255.0 / float64(levels-1)

	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = posterize(out.Pix[i], step)
		out.Pix[i+1] = posterize(out.Pix[i+1], step)
		out.Pix[i+2] = posterize(out.Pix[i+2], step)
		// Alpha is left untouched.
	}
	return out
}

// posterize snaps one channel value to its nearest level.
func posterize(value uint8, step float64) uint8 {
	snapped := float64(int(float64(value)/step+0.5)) * step
	if snapped > 255 {
		snapped = 255
	}
	return uint8(snapped + 0.5)
}

// applyCompressionProxy approximates encoder loss with a mild blur.
func applyCompressionProxy(img *image.NRGBA, cfg CompressionConfig) *image.NRGBA {
	if cfg.Algorithm != CompressionBlur || cfg.Sigma <= 0 {
		return img
	}
	return imaging.Blur(img, cfg.Sigma)
}
