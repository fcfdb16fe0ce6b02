package engine

import (
	"github.com/alde/pixelwise/pkg/catalog"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/units"
)

// DPI values with first-class tooling support across editors and printers.
var commonDPIValues = map[int]bool{72: true, 96: true, 150: true, 200: true, 300: true, 600: true}

// scoreCandidate fills in the five sub-scores and the weighted total for
// one candidate. Scoring is pure and deterministic.
func scoreCandidate(candidate *Candidate, ctx pixelwise.RecommendationContext, tier pixelwise.PerformanceTier) {
	estimatedBytes := units.EstimateFileSize(candidate.Resolution.Width, candidate.Resolution.Height, candidate.DPI)
	estimatedMs := renderTimeEstimate(candidate, tier)

	candidate.Metrics = Metrics{
		Quality:        qualityScore(candidate, ctx),
		FileSize:       fileSizeScore(estimatedBytes, ctx),
		RenderTime:     renderTimeScore(estimatedMs, ctx),
		Compatibility:  compatibilityScore(candidate),
		UserPreference: userPreferenceScore(candidate, ctx, estimatedBytes),
	}

	profile := ProfileFor(ctx.Purpose)
	candidate.Score = profile.Quality*candidate.Metrics.Quality +
		profile.FileSize*candidate.Metrics.FileSize +
		profile.RenderTime*candidate.Metrics.RenderTime +
		profile.Compatibility*candidate.Metrics.Compatibility +
		profile.UserPreference*candidate.Metrics.UserPreference
}

// qualityScore is a piecewise step on DPI with small purpose-fit bonuses,
// forced to the floor when the minimum quality constraint is violated.
func qualityScore(candidate *Candidate, ctx pixelwise.RecommendationContext) float64 {
	var score float64
	switch {
	case candidate.DPI >= 300:
		score = 1.0
	case candidate.DPI >= 200:
		score = 0.8
	case candidate.DPI >= 150:
		score = 0.6
	case candidate.DPI >= 96:
		score = 0.4
	default:
		score = 0.2
	}

	switch ctx.Purpose {
	case pixelwise.PurposePrint, pixelwise.PurposeArchive:
		if candidate.DPI >= 300 {
			score += 0.1
		}
	case pixelwise.PurposeMobile:
		if candidate.DPI >= 200 && candidate.DPI <= 300 {
			score += 0.05
		}
	}

	score = clampScore(score)
	if min := ctx.Constraints.MinQuality; min > 0 && score < min {
		return 0.1
	}
	return score
}

// fileSizeScore is a piecewise step on the estimated output size, forced
// to the floor when a hard size constraint is violated.
func fileSizeScore(estimatedBytes int64, ctx pixelwise.RecommendationContext) float64 {
	if maxKB := ctx.Constraints.MaxFileSizeKB; maxKB > 0 && estimatedBytes > int64(maxKB)*1024 {
		return 0.1
	}

	const mb = 1024 * 1024
	switch {
	case estimatedBytes > 10*mb:
		return 0.1
	case estimatedBytes > 5*mb:
		return 0.3
	case estimatedBytes > 2*mb:
		return 0.5
	case estimatedBytes > mb:
		return 0.7
	case estimatedBytes > 500*1024:
		return 0.9
	default:
		return 1.0
	}
}

// renderTimeEstimate models render cost in milliseconds: pixel count scaled
// quadratically by density, then by the inverse performance multiplier.
func renderTimeEstimate(candidate *Candidate, tier pixelwise.PerformanceTier) float64 {
	pixels := float64(candidate.Resolution.Width) * float64(candidate.Resolution.Height)
	ratio := units.PixelRatio(candidate.DPI)
	return pixels * ratio * ratio / 1e6 * tier.RenderTimeMultiplier()
}

// renderTimeScore is a piecewise step on the estimated render time, forced
// to the floor when a hard time constraint is violated.
func renderTimeScore(estimatedMs float64, ctx pixelwise.RecommendationContext) float64 {
	if maxMs := ctx.Constraints.MaxRenderTimeMs; maxMs > 0 && estimatedMs > float64(maxMs) {
		return 0.1
	}

	switch {
	case estimatedMs < 50:
		return 1.0
	case estimatedMs < 150:
		return 0.8
	case estimatedMs < 400:
		return 0.6
	case estimatedMs < 1000:
		return 0.4
	case estimatedMs < 3000:
		return 0.2
	default:
		return 0.1
	}
}

// compatibilityScore rewards candidates that line up with well-known
// presets, densities and aspect ratios.
func compatibilityScore(candidate *Candidate) float64 {
	score := 0.3
	if candidate.PresetID != "" {
		score += 0.3
	}
	if commonDPIValues[candidate.DPI] {
		score += 0.2
	}
	if catalog.IsStandardRatio(candidate.Resolution.Width, candidate.Resolution.Height) {
		score += 0.2
	}
	return clampScore(score)
}

// userPreferenceScore rewards alignment with the caller's explicit
// priorities and an exact custom-DPI match.
func userPreferenceScore(candidate *Candidate, ctx pixelwise.RecommendationContext, estimatedBytes int64) float64 {
	score := 0.5

	prefs := ctx.Preferences
	aligned := false
	if prefs.PrioritizeQuality && candidate.DPI >= 200 {
		aligned = true
	}
	if prefs.PrioritizeSpeed && candidate.DPI <= 150 {
		aligned = true
	}
	if prefs.PrioritizeFileSize && estimatedBytes <= 1024*1024 {
		aligned = true
	}
	if aligned {
		score += 0.3
	}

	if prefs.CustomDPI != 0 && candidate.DPI == prefs.CustomDPI {
		score += 0.2
	}

	return clampScore(score)
}

// clampScore bounds a sub-score to [0, 1].
func clampScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}
