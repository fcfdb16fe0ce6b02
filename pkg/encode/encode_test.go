package encode

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/alde/pixelwise/pkg/optimize"
)

func testSurface() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 5), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{".webp", FormatWebP, false},
		{"tiff", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		format, err := ParseFormat(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) should fail", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tc.input, err)
			continue
		}
		if format != tc.expected {
			t.Errorf("ParseFormat(%q) = %s, expected %s", tc.input, format, tc.expected)
		}
	}
}

func TestEncodeProducesFormatMagicBytes(t *testing.T) {
	surface := testSurface()

	cases := []struct {
		format Format
		magic  []byte
		offset int
	}{
		{FormatPNG, []byte{0x89, 'P', 'N', 'G'}, 0},
		{FormatJPEG, []byte{0xFF, 0xD8}, 0},
		{FormatWebP, []byte("WEBP"), 8},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		if err := NewEncoder(tc.format).Encode(&buf, surface, optimize.ModeBalanced); err != nil {
			t.Errorf("Encode %s failed: %v", tc.format, err)
			continue
		}
		data := buf.Bytes()
		if len(data) < tc.offset+len(tc.magic) {
			t.Errorf("%s output too short: %d bytes", tc.format, len(data))
			continue
		}
		if !bytes.Equal(data[tc.offset:tc.offset+len(tc.magic)], tc.magic) {
			t.Errorf("%s output missing magic bytes at offset %d", tc.format, tc.offset)
		}
	}
}

func TestAggressiveModeShrinksLossyOutput(t *testing.T) {
	surface := testSurface()
	encoder := NewEncoder(FormatJPEG)

	var quality, aggressive bytes.Buffer
	if err := encoder.Encode(&quality, surface, optimize.ModeQuality); err != nil {
		t.Fatalf("Quality encode failed: %v", err)
	}
	if err := encoder.Encode(&aggressive, surface, optimize.ModeAggressive); err != nil {
		t.Fatalf("Aggressive encode failed: %v", err)
	}

	if aggressive.Len() >= quality.Len() {
		t.Errorf("Aggressive mode should produce smaller output: %d vs %d",
			aggressive.Len(), quality.Len())
	}
}

func TestEncodeFileReplacesExtension(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "surface.png")

	outputPath, size, err := NewEncoder(FormatWebP).EncodeFile(input, testSurface(), optimize.ModeBalanced)
	if err != nil {
		t.Fatalf("EncodeFile failed: %v", err)
	}

	if filepath.Ext(outputPath) != ".webp" {
		t.Errorf("Expected .webp extension, got %s", outputPath)
	}
	if size <= 0 {
		t.Errorf("Expected positive encoded size, got %d", size)
	}
}
