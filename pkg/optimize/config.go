// Package optimize applies a bounded sequence of pixel-level transforms to
// a rasterized surface under a memory budget and scores the result with
// objective quality metrics.
package optimize

import (
	"fmt"
	"time"
)

// Mode selects a stage preset balancing fidelity against output size.
type Mode int

const (
	ModeBalanced Mode = iota
	ModeQuality
	ModeAggressive
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeQuality:
		return "quality"
	case ModeAggressive:
		return "aggressive"
	default:
		return "balanced"
	}
}

// ToneAlgorithm selects the tone/levels stage behavior.
type ToneAlgorithm int

const (
	ToneNone ToneAlgorithm = iota
	ToneLevels
	ToneGamma
)

// NoiseAlgorithm selects the noise-reduction stage behavior.
type NoiseAlgorithm int

const (
	NoiseNone NoiseAlgorithm = iota
	NoiseGaussian
)

// SharpenAlgorithm selects the sharpening stage behavior.
type SharpenAlgorithm int

const (
	SharpenNone SharpenAlgorithm = iota
	SharpenUnsharp
)

// ColorAlgorithm selects the color/palette reduction stage behavior.
type ColorAlgorithm int

const (
	ColorNone ColorAlgorithm = iota
	ColorPosterize
)

// CompressionAlgorithm selects the compression-proxy stage behavior. The
// proxy approximates encoder loss with a mild blur; it is not a codec.
type CompressionAlgorithm int

const (
	CompressionNone CompressionAlgorithm = iota
	CompressionBlur
)

// ToneConfig adjusts brightness, contrast and gamma.
type ToneConfig struct {
	Algorithm  ToneAlgorithm
	Brightness float64 // percentage, -100..100
	Contrast   float64 // percentage, -100..100
	Gamma      float64 // 1.0 is neutral
}

// NoiseConfig controls the noise-reduction blur.
type NoiseConfig struct {
	Algorithm NoiseAlgorithm
	Sigma     float64
}

// SharpenConfig controls unsharp sharpening.
type SharpenConfig struct {
	Algorithm SharpenAlgorithm
	Sigma     float64
}

// ColorConfig controls palette reduction.
type ColorConfig struct {
	Algorithm ColorAlgorithm
	// Levels per channel; 4 gives a 64-color cube.
	Levels int
}

// CompressionConfig controls the compression-proxy blur.
type CompressionConfig struct {
	Algorithm CompressionAlgorithm
	Sigma     float64
}

// Config is one optimization request's full stage configuration.
type Config struct {
	Mode          Mode
	TargetQuality float64
	Tone          ToneConfig
	Noise         NoiseConfig
	Sharpen       SharpenConfig
	Color         ColorConfig
	Compression   CompressionConfig

	// RenderTimeout bounds the whole pipeline run; zero disables it.
	RenderTimeout time.Duration
}

// DefaultConfig returns the stage preset for a mode.
func DefaultConfig(mode Mode) Config {
	switch mode {
	case ModeQuality:
		return Config{
			Mode:          mode,
			TargetQuality: 0.9,
			Tone:          ToneConfig{Algorithm: ToneLevels, Contrast: 5},
			Sharpen:       SharpenConfig{Algorithm: SharpenUnsharp, Sigma: 0.8},
		}
	case ModeAggressive:
		return Config{
			Mode:          mode,
			TargetQuality: 0.6,
			Tone:          ToneConfig{Algorithm: ToneLevels, Contrast: 5},
			Noise:         NoiseConfig{Algorithm: NoiseGaussian, Sigma: 0.8},
			Color:         ColorConfig{Algorithm: ColorPosterize, Levels: 6},
			Compression:   CompressionConfig{Algorithm: CompressionBlur, Sigma: 0.6},
		}
	default:
		return Config{
			Mode:          ModeBalanced,
			TargetQuality: 0.75,
			Tone:          ToneConfig{Algorithm: ToneLevels, Contrast: 3},
			Noise:         NoiseConfig{Algorithm: NoiseGaussian, Sigma: 0.5},
			Sharpen:       SharpenConfig{Algorithm: SharpenUnsharp, Sigma: 0.5},
		}
	}
}

// Signature is the cache-key component describing this configuration.
func (c Config) Signature() string {
	return fmt.Sprintf("%s|%.2f|t%d:%.1f:%.1f:%.2f|n%d:%.2f|s%d:%.2f|c%d:%d|z%d:%.2f",
		c.Mode, c.TargetQuality,
		c.Tone.Algorithm, c.Tone.Brightness, c.Tone.Contrast, c.Tone.Gamma,
		c.Noise.Algorithm, c.Noise.Sigma,
		c.Sharpen.Algorithm, c.Sharpen.Sigma,
		c.Color.Algorithm, c.Color.Levels,
		c.Compression.Algorithm, c.Compression.Sigma,
	)
}
