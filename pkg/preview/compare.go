package preview

import (
	"context"
	"fmt"
	"image"
)

// Normalization ceilings for the secondary comparison score.
const (
	comparisonSizeCeiling   = 10 * 1024 * 1024
	comparisonRenderCeiling = 5000.0 // milliseconds
)

// Comparison is the outcome of previewing several DPIs side by side.
type Comparison struct {
	Previews []*Result

	BestQuality   *Result
	SmallestFile  *Result
	FastestRender *Result
	Recommended   *Result

	// Warnings records per-DPI failures; a failed preview never aborts
	// its siblings.
	Warnings []string
}

// Compare previews every DPI in the list and selects the extremes plus a
// weighted overall recommendation.
func (g *Generator) Compare(ctx context.Context, source image.Image, dpiList []int, opts Options) (*Comparison, error) {
	if len(dpiList) == 0 {
		return nil, fmt.Errorf("no DPI values to compare")
	}

	comparison := &Comparison{}
	for _, dpi := range dpiList {
		result, err := g.Generate(ctx, source, dpi, opts)
		if err != nil {
			g.logger.Warn("preview failed during comparison", "dpi", dpi, "error", err)
			comparison.Warnings = append(comparison.Warnings, fmt.Sprintf("preview at %d DPI failed: %v", dpi, err))
			continue
		}
		comparison.Previews = append(comparison.Previews, result)
	}

	if len(comparison.Previews) == 0 {
		return nil, fmt.Errorf("every preview failed: %v", comparison.Warnings)
	}

	comparison.BestQuality = comparison.Previews[0]
	comparison.SmallestFile = comparison.Previews[0]
	comparison.FastestRender = comparison.Previews[0]
	comparison.Recommended = comparison.Previews[0]
	bestWeighted := weightedComparisonScore(comparison.Previews[0])

	for _, result := range comparison.Previews[1:] {
		if result.QualityScore > comparison.BestQuality.QualityScore {
			comparison.BestQuality = result
		}
		if result.EstimatedFileSize < comparison.SmallestFile.EstimatedFileSize {
			comparison.SmallestFile = result
		}
		if result.RenderTime < comparison.FastestRender.RenderTime {
			comparison.FastestRender = result
		}
		if weighted := weightedComparisonScore(result); weighted > bestWeighted {
			bestWeighted = weighted
			comparison.Recommended = result
		}
	}

	return comparison, nil
}

// weightedComparisonScore blends quality, file size and render time, each
// normalized against a fixed ceiling: quality 0.5, size 0.3, time 0.2.
func weightedComparisonScore(result *Result) float64 {
	sizeScore := 1.0 - float64(result.EstimatedFileSize)/comparisonSizeCeiling
	if sizeScore < 0 {
		sizeScore = 0
	}

	timeScore := 1.0 - float64(result.RenderTime.Milliseconds())/comparisonRenderCeiling
	if timeScore < 0 {
		timeScore = 0
	}

	return result.QualityScore*0.5 + sizeScore*0.3 + timeScore*0.2
}
