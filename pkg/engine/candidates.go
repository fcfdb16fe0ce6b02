package engine

import (
	"fmt"

	"github.com/alde/pixelwise/pkg/catalog"
	"github.com/alde/pixelwise/pkg/device"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/units"
)

// Resolution is a pixel surface size.
type Resolution struct {
	Width  int
	Height int
}

// Metrics holds a candidate's five sub-scores, each in [0, 1].
type Metrics struct {
	Quality        float64
	FileSize       float64
	RenderTime     float64
	Compatibility  float64
	UserPreference float64
}

// Candidate is one (DPI, resolution) pair under evaluation. Candidates are
// generated and discarded per request, never persisted.
type Candidate struct {
	DPI        int
	Resolution Resolution
	PresetID   string
	Metrics    Metrics
	Score      float64
	Source     string
}

// generateCandidates builds the candidate union: catalog presets for the
// purpose, the device DPI envelope applied to the source surface, and a
// single user-custom candidate. Duplicates are removed; the set is never
// empty for a valid source because of the baseline fallback.
func generateCandidates(sourceW, sourceH int, ctx pixelwise.RecommendationContext, rec device.Recommendation) []Candidate {
	var candidates []Candidate

	maxW := ctx.Constraints.MaxWidth
	maxH := ctx.Constraints.MaxHeight
	if maxW <= 0 {
		maxW = units.MaxPixelDimension
	}
	if maxH <= 0 {
		maxH = units.MaxPixelDimension
	}

	// (a) catalog presets serving this purpose. Presets that exceed a hard
	// dimension ceiling are excluded outright.
	for _, preset := range catalog.ByCategory(catalog.CategoryForPurpose(ctx.Purpose)) {
		if preset.Width > maxW || preset.Height > maxH {
			continue
		}
		candidates = append(candidates, Candidate{
			DPI:        preset.RecommendedDPI,
			Resolution: Resolution{Width: preset.Width, Height: preset.Height},
			PresetID:   preset.ID,
			Source:     "catalog",
		})
	}

	// (b) the device envelope at the source's own surface, shrunk to any
	// caller-supplied maximum.
	targetW, targetH := catalog.FitWithin(sourceW, sourceH, maxW, maxH)

	for _, dpi := range []int{rec.Envelope.Min, rec.Envelope.Optimal, rec.Envelope.Max} {
		if dpi <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			DPI:        dpi,
			Resolution: Resolution{Width: targetW, Height: targetH},
			Source:     "device",
		})
	}

	// (c) the user's own candidate, when supplied.
	if custom := customCandidate(sourceW, sourceH, ctx.Preferences); custom != nil {
		candidates = append(candidates, *custom)
	}

	// Baseline fallback so generation never comes up empty.
	if len(candidates) == 0 {
		candidates = append(candidates, fallbackCandidate(targetW, targetH))
	}

	return dedupe(candidates)
}

// customCandidate builds the user candidate from explicit preferences, or
// returns nil when none were supplied.
func customCandidate(sourceW, sourceH int, prefs pixelwise.UserPreferences) *Candidate {
	if prefs.CustomDPI == 0 && prefs.CustomWidth == 0 && prefs.CustomHeight == 0 {
		return nil
	}

	dpi := prefs.CustomDPI
	if dpi == 0 {
		dpi = units.BaselineDPI
	}

	width, height := prefs.CustomWidth, prefs.CustomHeight
	if width == 0 || height == 0 {
		width, height = sourceW, sourceH
	}

	return &Candidate{
		DPI:        dpi,
		Resolution: Resolution{Width: width, Height: height},
		Source:     "custom",
	}
}

// fallbackCandidate is the never-fails default: baseline DPI at the source
// resolution.
func fallbackCandidate(sourceW, sourceH int) Candidate {
	return Candidate{
		DPI:        units.BaselineDPI,
		Resolution: Resolution{Width: sourceW, Height: sourceH},
		Source:     "fallback",
	}
}

// dedupe removes candidates sharing the same DPI and resolution, keeping
// the first occurrence (catalog entries win over device entries).
func dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	result := candidates[:0]
	for _, candidate := range candidates {
		key := fmt.Sprintf("%d|%dx%d", candidate.DPI, candidate.Resolution.Width, candidate.Resolution.Height)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, candidate)
	}
	return result
}
