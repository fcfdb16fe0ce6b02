package engine

import "github.com/alde/pixelwise/pkg/pixelwise"

// WeightProfile distributes scoring weight across the five criteria for
// one purpose. Every profile sums to 1.0.
type WeightProfile struct {
	Quality        float64
	FileSize       float64
	RenderTime     float64
	Compatibility  float64
	UserPreference float64
}

// Purpose-specific weight profiles. Print and archive lean on quality,
// email and social on file size, mobile on render time.
var weightProfiles = map[pixelwise.Purpose]WeightProfile{
	pixelwise.PurposeWeb: {
		Quality:        0.20,
		FileSize:       0.30,
		RenderTime:     0.20,
		Compatibility:  0.20,
		UserPreference: 0.10,
	},
	pixelwise.PurposePrint: {
		Quality:        0.50,
		FileSize:       0.10,
		RenderTime:     0.10,
		Compatibility:  0.20,
		UserPreference: 0.10,
	},
	pixelwise.PurposeSocial: {
		Quality:        0.25,
		FileSize:       0.35,
		RenderTime:     0.15,
		Compatibility:  0.15,
		UserPreference: 0.10,
	},
	pixelwise.PurposeMobile: {
		Quality:        0.20,
		FileSize:       0.30,
		RenderTime:     0.30,
		Compatibility:  0.10,
		UserPreference: 0.10,
	},
	pixelwise.PurposePresentation: {
		Quality:        0.40,
		FileSize:       0.15,
		RenderTime:     0.15,
		Compatibility:  0.20,
		UserPreference: 0.10,
	},
	pixelwise.PurposeEmail: {
		Quality:        0.15,
		FileSize:       0.45,
		RenderTime:     0.15,
		Compatibility:  0.15,
		UserPreference: 0.10,
	},
	pixelwise.PurposeArchive: {
		Quality:        0.45,
		FileSize:       0.15,
		RenderTime:     0.10,
		Compatibility:  0.20,
		UserPreference: 0.10,
	},
}

// ProfileFor returns the weight profile for a purpose. Unknown purposes
// fall back to the web profile.
func ProfileFor(purpose pixelwise.Purpose) WeightProfile {
	if profile, ok := weightProfiles[purpose]; ok {
		return profile
	}
	return weightProfiles[pixelwise.PurposeWeb]
}
