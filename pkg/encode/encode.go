// Package encode writes an optimized surface to disk in the format a
// target device can consume, trading quality against file size per the
// selected optimization mode.
package encode

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"

	"github.com/alde/pixelwise/pkg/optimize"
)

// Format is a supported output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// ParseFormat maps a user-supplied format name (or file extension) onto
// a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (png, jpeg, webp)", s)
	}
}

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	default:
		return ".jpg"
	}
}

// Encoder writes surfaces in a target format with mode-driven quality.
type Encoder struct {
	format Format
}

// NewEncoder creates an encoder for the given format.
func NewEncoder(format Format) *Encoder {
	return &Encoder{format: format}
}

// Encode writes the surface to w. Lossy formats derive their quality
// setting from the optimization mode.
func (e *Encoder) Encode(w io.Writer, img image.Image, mode optimize.Mode) error {
	switch e.format {
	case FormatPNG:
		encoder := &png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, img)

	case FormatWebP:
		options := &webp.Options{
			Lossless: false,
			Quality:  webpQuality(mode),
		}
		return webp.Encode(w, img, options)

	default:
		options := &jpeg.Options{Quality: jpegQuality(mode)}
		return jpeg.Encode(w, img, options)
	}
}

// EncodeFile writes the surface to path and returns the encoded size in
// bytes. The extension on path is replaced to match the format.
func (e *Encoder) EncodeFile(path string, img image.Image, mode optimize.Mode) (string, int64, error) {
	outputPath := replaceExtension(path, e.format.Extension())

	file, err := os.Create(outputPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := e.Encode(file, img, mode); err != nil {
		return "", 0, fmt.Errorf("failed to encode %s: %w", e.format, err)
	}

	stat, err := file.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat output file: %w", err)
	}
	return outputPath, stat.Size(), nil
}

// jpegQuality maps an optimization mode onto a JPEG quality setting.
func jpegQuality(mode optimize.Mode) int {
	switch mode {
	case optimize.ModeQuality:
		return 92
	case optimize.ModeAggressive:
		return 70
	default:
		return 85
	}
}

// webpQuality maps an optimization mode onto a WebP quality setting.
// WebP compresses more efficiently than JPEG at the same setting, so the
// aggressive tier sits slightly higher.
func webpQuality(mode optimize.Mode) float32 {
	switch mode {
	case optimize.ModeQuality:
		return 90
	case optimize.ModeAggressive:
		return 72
	default:
		return 80
	}
}

// replaceExtension swaps the extension on path for ext.
func replaceExtension(path, ext string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + ext
}
