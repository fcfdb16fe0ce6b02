// Package catalog holds the static table of named resolution/DPI presets
// and the aspect-ratio helpers built around it.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alde/pixelwise/pkg/pixelwise"
)

// Category groups presets by export destination.
type Category int

const (
	CategoryWeb Category = iota
	CategorySocial
	CategoryPrint
	CategoryMobile
	CategoryPresentation
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategorySocial:
		return "social"
	case CategoryPrint:
		return "print"
	case CategoryMobile:
		return "mobile"
	case CategoryPresentation:
		return "presentation"
	default:
		return "web"
	}
}

// CategoryForPurpose maps a caller purpose onto the preset category that
// serves it. Email and archive exports reuse the web and print tables.
func CategoryForPurpose(purpose pixelwise.Purpose) Category {
	switch purpose {
	case pixelwise.PurposePrint, pixelwise.PurposeArchive:
		return CategoryPrint
	case pixelwise.PurposeSocial:
		return CategorySocial
	case pixelwise.PurposeMobile:
		return CategoryMobile
	case pixelwise.PurposePresentation:
		return CategoryPresentation
	default:
		return CategoryWeb
	}
}

// Preset is a named resolution/DPI pairing for a common use case. Presets
// are static catalog entries and never mutated after load.
type Preset struct {
	ID             string
	Name           string
	Width          int
	Height         int
	Category       Category
	RecommendedDPI int
	AspectRatioTag string
}

// Available resolution presets, keyed by id.
var presets = map[string]Preset{
	"web-standard": {
		ID:             "web-standard",
		Name:           "Web Standard (HD)",
		Width:          1366,
		Height:         768,
		Category:       CategoryWeb,
		RecommendedDPI: 96,
		AspectRatioTag: "16:9",
	},
	"web-fullhd": {
		ID:             "web-fullhd",
		Name:           "Web Full HD",
		Width:          1920,
		Height:         1080,
		Category:       CategoryWeb,
		RecommendedDPI: 96,
		AspectRatioTag: "16:9",
	},
	"web-retina": {
		ID:             "web-retina",
		Name:           "Web Retina",
		Width:          2560,
		Height:         1440,
		Category:       CategoryWeb,
		RecommendedDPI: 192,
		AspectRatioTag: "16:9",
	},
	"social-square": {
		ID:             "social-square",
		Name:           "Social Square Post",
		Width:          1080,
		Height:         1080,
		Category:       CategorySocial,
		RecommendedDPI: 96,
		AspectRatioTag: "1:1",
	},
	"social-story": {
		ID:             "social-story",
		Name:           "Social Story",
		Width:          1080,
		Height:         1920,
		Category:       CategorySocial,
		RecommendedDPI: 96,
		AspectRatioTag: "9:16",
	},
	"social-landscape": {
		ID:             "social-landscape",
		Name:           "Social Landscape Post",
		Width:          1200,
		Height:         675,
		Category:       CategorySocial,
		RecommendedDPI: 96,
		AspectRatioTag: "16:9",
	},
	"print-a4": {
		ID:             "print-a4",
		Name:           "Print A4 (300 DPI)",
		Width:          2480,
		Height:         3508,
		Category:       CategoryPrint,
		RecommendedDPI: 300,
		AspectRatioTag: "custom",
	},
	"print-letter": {
		ID:             "print-letter",
		Name:           "Print US Letter (300 DPI)",
		Width:          2550,
		Height:         3300,
		Category:       CategoryPrint,
		RecommendedDPI: 300,
		AspectRatioTag: "custom",
	},
	"print-a3": {
		ID:             "print-a3",
		Name:           "Print A3 (300 DPI)",
		Width:          3508,
		Height:         4961,
		Category:       CategoryPrint,
		RecommendedDPI: 300,
		AspectRatioTag: "custom",
	},
	"mobile-standard": {
		ID:             "mobile-standard",
		Name:           "Mobile Standard",
		Width:          750,
		Height:         1334,
		Category:       CategoryMobile,
		RecommendedDPI: 200,
		AspectRatioTag: "9:16",
	},
	"mobile-large": {
		ID:             "mobile-large",
		Name:           "Mobile Large",
		Width:          1170,
		Height:         2532,
		Category:       CategoryMobile,
		RecommendedDPI: 300,
		AspectRatioTag: "custom",
	},
	"presentation-hd": {
		ID:             "presentation-hd",
		Name:           "Presentation HD",
		Width:          1920,
		Height:         1080,
		Category:       CategoryPresentation,
		RecommendedDPI: 96,
		AspectRatioTag: "16:9",
	},
	"presentation-4k": {
		ID:             "presentation-4k",
		Name:           "Presentation 4K",
		Width:          3840,
		Height:         2160,
		Category:       CategoryPresentation,
		RecommendedDPI: 150,
		AspectRatioTag: "16:9",
	},
}

// ByID returns a preset by its id.
func ByID(id string) (Preset, error) {
	normalized := strings.ToLower(strings.TrimSpace(id))

	if preset, exists := presets[normalized]; exists {
		return preset, nil
	}

	var available []string
	for key := range presets {
		available = append(available, key)
	}
	sort.Strings(available)

	return Preset{}, fmt.Errorf("unknown preset '%s'. Available presets: %v", id, available)
}

// ByCategory returns every preset in a category, ordered by id for
// deterministic candidate generation.
func ByCategory(category Category) []Preset {
	var matched []Preset
	for _, preset := range presets {
		if preset.Category == category {
			matched = append(matched, preset)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})
	return matched
}

// All returns every preset in the catalog, ordered by id.
func All() []Preset {
	all := make([]Preset, 0, len(presets))
	for _, preset := range presets {
		all = append(all, preset)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})
	return all
}
