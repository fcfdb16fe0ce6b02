package pixelwise

// Constraints are hard limits the caller puts on a recommendation.
// Zero values mean "no constraint".
type Constraints struct {
	MaxFileSizeKB   int
	MaxRenderTimeMs int
	MinQuality      float64
	MaxWidth        int
	MaxHeight       int
}

// UserPreferences express soft preferences that bias candidate scoring.
type UserPreferences struct {
	PrioritizeQuality  bool
	PrioritizeSpeed    bool
	PrioritizeFileSize bool

	// CustomDPI and CustomWidth/CustomHeight inject a user-supplied
	// candidate into the generated set. Zero means unset.
	CustomDPI    int
	CustomWidth  int
	CustomHeight int
}

// RecommendationContext carries the caller's intent for one recommendation
// request. One value per request; never retained by the engine except as
// part of a recorded learning choice.
type RecommendationContext struct {
	Purpose         Purpose
	DeviceType      DeviceType
	PerformanceTier PerformanceTier
	Constraints     Constraints
	Preferences     UserPreferences
	ContentType     string
	TargetAudience  string
}
