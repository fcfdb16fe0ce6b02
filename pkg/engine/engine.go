// Package engine generates, scores and ranks (DPI, resolution) candidates
// for an export request, nudged by recorded user satisfaction.
package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/alde/pixelwise/pkg/catalog"
	"github.com/alde/pixelwise/pkg/device"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/units"
)

// RecommendationResult is the ranked outcome of one recommendation
// request: the winning candidate, up to three alternatives, and the
// human-readable rationale behind the ranking.
type RecommendationResult struct {
	DPI                int
	Resolution         Resolution
	PresetID           string
	Score              float64
	Metrics            Metrics
	EstimatedFileSize  int64
	AdjustedByLearning bool
	Alternatives       []Candidate
	Rationale          []string
	Warnings           []string
}

// Engine is the recommendation engine. Construct one per process with
// NewEngine and share it; all state lives in the injected collaborators.
type Engine struct {
	detector *device.Detector
	learning *LearningStore
	logger   *slog.Logger
}

// NewEngine creates an engine over a device detector and a learning store.
func NewEngine(detector *device.Detector, learning *LearningStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		detector: detector,
		learning: learning,
		logger:   logger,
	}
}

// Recommend produces a ranked recommendation for the given source surface
// and context. It fails only for degenerate input; everything downstream
// of validation degrades to the baseline candidate instead of failing.
func (e *Engine) Recommend(sourceW, sourceH int, ctx pixelwise.RecommendationContext) (RecommendationResult, error) {
	if sourceW <= 0 || sourceH <= 0 {
		return RecommendationResult{}, &pixelwise.NoCandidatesError{SourceWidth: sourceW, SourceHeight: sourceH}
	}
	if err := units.ValidatePixelDimension("sourceWidth", sourceW); err != nil {
		return RecommendationResult{}, err
	}
	if err := units.ValidatePixelDimension("sourceHeight", sourceH); err != nil {
		return RecommendationResult{}, err
	}

	tier, deviceRec, rationale := e.resolveDevice(&ctx)

	candidates := generateCandidates(sourceW, sourceH, ctx, deviceRec)
	for i := range candidates {
		scoreCandidate(&candidates[i], ctx, tier)
	}

	adjusted := e.applyLearning(candidates, ctx.Purpose)

	// Deterministic ranking: score, then DPI, then width.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].DPI != candidates[j].DPI {
			return candidates[i].DPI > candidates[j].DPI
		}
		return candidates[i].Resolution.Width > candidates[j].Resolution.Width
	})

	winner := candidates[0]
	alternatives := candidates[1:]
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	rationale = append(rationale,
		fmt.Sprintf("purpose %s weights quality %.2f and file size %.2f",
			ctx.Purpose, ProfileFor(ctx.Purpose).Quality, ProfileFor(ctx.Purpose).FileSize),
		fmt.Sprintf("top candidate from %s source scored %.3f", winner.Source, winner.Score),
	)
	if adjusted {
		rationale = append(rationale, "ranking adjusted by recorded user satisfaction")
	}

	var warnings []string
	validation := catalog.ValidateResolution(winner.Resolution.Width, winner.Resolution.Height, winner.DPI)
	warnings = append(warnings, validation.Warnings...)
	if min := ctx.Constraints.MinQuality; min > 0 && winner.Metrics.Quality < min {
		warnings = append(warnings, fmt.Sprintf(
			"no candidate meets the minimum quality %.2f; best available scored %.2f", min, winner.Metrics.Quality))
	}

	return RecommendationResult{
		DPI:                winner.DPI,
		Resolution:         winner.Resolution,
		PresetID:           winner.PresetID,
		Score:              winner.Score,
		Metrics:            winner.Metrics,
		EstimatedFileSize:  units.EstimateFileSize(winner.Resolution.Width, winner.Resolution.Height, winner.DPI),
		AdjustedByLearning: adjusted,
		Alternatives:       alternatives,
		Rationale:          rationale,
		Warnings:           warnings,
	}, nil
}

// resolveDevice fills in device type and tier from the detector when the
// caller did not supply them, and returns the device envelope to generate
// candidates from.
func (e *Engine) resolveDevice(ctx *pixelwise.RecommendationContext) (pixelwise.PerformanceTier, device.Recommendation, []string) {
	var rationale []string

	if ctx.DeviceType == pixelwise.DeviceUnknown && e.detector != nil {
		detection := e.detector.Detect()
		ctx.DeviceType = detection.Capabilities.DeviceType
		ctx.PerformanceTier = detection.Capabilities.PerformanceTier
		rationale = append(rationale, fmt.Sprintf("detected %s device at %s tier",
			ctx.DeviceType, ctx.PerformanceTier))
		return ctx.PerformanceTier, detection.Recommended, rationale
	}

	// Caller-described device: derive the envelope from the description
	// alone, with a conventional memory budget.
	caps := device.Capabilities{
		DeviceType:      ctx.DeviceType,
		PerformanceTier: ctx.PerformanceTier,
		PixelDensity:    device.PixelDensityInfo{Ratio: 1.0, EffectiveDPI: units.BaselineDPI},
		Memory:          device.MemoryInfo{HeapCeilingBytes: 2 * 1024 * 1024 * 1024},
	}
	rationale = append(rationale, fmt.Sprintf("caller-described %s device at %s tier",
		ctx.DeviceType, ctx.PerformanceTier))
	return ctx.PerformanceTier, device.Recommend(caps), rationale
}

// applyLearning blends each candidate's score with the average recorded
// satisfaction of nearby past choices for the same purpose. Candidates
// with no matching records keep their computed score.
func (e *Engine) applyLearning(candidates []Candidate, purpose pixelwise.Purpose) bool {
	if e.learning == nil {
		return false
	}

	adjusted := false
	for i := range candidates {
		avg, ok := e.learning.AverageSatisfaction(purpose, candidates[i].DPI)
		if !ok {
			continue
		}
		candidates[i].Score = candidates[i].Score*0.5 + avg*0.5
		adjusted = true
	}
	return adjusted
}

// RecordChoice records the settings a user actually exported with and how
// satisfied they were, feeding future recommendations.
func (e *Engine) RecordChoice(ctx pixelwise.RecommendationContext, chosen ChosenSettings, satisfaction float64, actual *ActualMetrics) {
	if e.learning == nil {
		return
	}
	e.learning.RecordChoice(ctx, chosen, satisfaction, actual)
}

// DetectDevice exposes the engine's device detection to callers. Without
// a detector it returns the zero result.
func (e *Engine) DetectDevice() device.DetectionResult {
	if e.detector == nil {
		return device.DetectionResult{}
	}
	return e.detector.Detect()
}
