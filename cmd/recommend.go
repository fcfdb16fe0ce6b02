package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/alde/pixelwise/pkg/device"
	"github.com/alde/pixelwise/pkg/engine"
	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/store"
)

var (
	recommendPurpose     string
	recommendDevice      string
	recommendMaxFileKB   int
	recommendMaxRenderMs int
	recommendMinQuality  float64
	recommendMaxWidth    int
	recommendMaxHeight   int
	recommendCustomDPI   int
	recommendPrefer      string
	recommendDataDir     string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [width] [height]",
	Short: "Recommend export DPI and resolution for a source size",
	Long: `Recommend the best export DPI and pixel resolution for a source
surface, scored against the export purpose, the device and any
constraints. Recorded feedback from previous exports nudges the ranking.

Examples:
  pixelwise recommend 2480 3508 --purpose print
  pixelwise recommend 1920 1080 --purpose web --prefer filesize
  pixelwise recommend 1200 1200 --purpose social --max-file-size 500`,
	Args: cobra.ExactArgs(2),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVarP(&recommendPurpose, "purpose", "p", "web", "Export purpose (web, print, social, mobile, presentation, email, archive)")
	recommendCmd.Flags().StringVar(&recommendDevice, "device", "auto", "Target device type (auto, mobile, tablet, laptop, desktop)")
	recommendCmd.Flags().IntVar(&recommendMaxFileKB, "max-file-size", 0, "Hard file size ceiling in KB (0 = none)")
	recommendCmd.Flags().IntVar(&recommendMaxRenderMs, "max-render-time", 0, "Hard render time ceiling in ms (0 = none)")
	recommendCmd.Flags().Float64Var(&recommendMinQuality, "min-quality", 0, "Minimum quality score 0..1 (0 = none)")
	recommendCmd.Flags().IntVar(&recommendMaxWidth, "max-width", 0, "Hard output width ceiling in pixels (0 = none)")
	recommendCmd.Flags().IntVar(&recommendMaxHeight, "max-height", 0, "Hard output height ceiling in pixels (0 = none)")
	recommendCmd.Flags().IntVar(&recommendCustomDPI, "custom-dpi", 0, "Inject a custom DPI candidate (0 = none)")
	recommendCmd.Flags().StringVar(&recommendPrefer, "prefer", "", "Soft preference (quality, speed, filesize)")
	recommendCmd.Flags().StringVar(&recommendDataDir, "data-dir", "", "Directory for recorded feedback (default: user cache dir)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	width, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid width: %s", args[0])
	}
	height, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid height: %s", args[1])
	}

	ctx, err := buildContext()
	if err != nil {
		return err
	}

	eng, err := buildEngine(recommendDataDir)
	if err != nil {
		return err
	}

	result, err := eng.Recommend(width, height, ctx)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	printRecommendation(result)
	return nil
}

// buildContext assembles the recommendation context from the flags.
func buildContext() (pixelwise.RecommendationContext, error) {
	purpose, err := pixelwise.ParsePurpose(recommendPurpose)
	if err != nil {
		return pixelwise.RecommendationContext{}, err
	}
	deviceType, err := pixelwise.ParseDeviceType(recommendDevice)
	if err != nil {
		return pixelwise.RecommendationContext{}, err
	}

	ctx := pixelwise.RecommendationContext{
		Purpose:    purpose,
		DeviceType: deviceType,
		Constraints: pixelwise.Constraints{
			MaxFileSizeKB:   recommendMaxFileKB,
			MaxRenderTimeMs: recommendMaxRenderMs,
			MinQuality:      recommendMinQuality,
			MaxWidth:        recommendMaxWidth,
			MaxHeight:       recommendMaxHeight,
		},
		Preferences: pixelwise.UserPreferences{
			CustomDPI: recommendCustomDPI,
		},
	}

	switch recommendPrefer {
	case "quality":
		ctx.Preferences.PrioritizeQuality = true
	case "speed":
		ctx.Preferences.PrioritizeSpeed = true
	case "filesize":
		ctx.Preferences.PrioritizeFileSize = true
	case "":
	default:
		return pixelwise.RecommendationContext{}, fmt.Errorf("unknown preference '%s' (quality, speed, filesize)", recommendPrefer)
	}

	return ctx, nil
}

// buildEngine wires the engine over host detection and a file-backed
// feedback store. A store failure degrades to in-memory feedback.
func buildEngine(dataDir string) (*engine.Engine, error) {
	detector := device.NewDetector(device.NewHostProvider())

	var kv store.KeyValueStore
	fileStore, err := store.NewFileStore(resolveDataDir(dataDir))
	if err != nil {
		slog.Warn("feedback store unavailable, using in-memory store", "error", err)
		kv = store.NewMemoryStore()
	} else {
		kv = fileStore
	}

	learning := engine.NewLearningStore(kv, slog.Default())
	return engine.NewEngine(detector, learning, slog.Default()), nil
}

// resolveDataDir picks the feedback directory: the flag value when set,
// otherwise a pixelwise directory under the user cache dir.
func resolveDataDir(dataDir string) string {
	if dataDir != "" {
		return dataDir
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ".pixelwise"
	}
	return filepath.Join(cacheDir, "pixelwise")
}

func printRecommendation(result engine.RecommendationResult) {
	fmt.Printf("Recommended export\n")
	fmt.Printf("================================================================\n")
	fmt.Printf("DPI:           %d\n", result.DPI)
	fmt.Printf("Resolution:    %dx%d\n", result.Resolution.Width, result.Resolution.Height)
	if result.PresetID != "" {
		fmt.Printf("Preset:        %s\n", result.PresetID)
	}
	fmt.Printf("Score:         %.3f\n", result.Score)
	fmt.Printf("Est. size:     %s\n", humanize.Bytes(uint64(result.EstimatedFileSize)))
	if result.AdjustedByLearning {
		fmt.Printf("Adjusted by recorded feedback\n")
	}

	if len(result.Rationale) > 0 {
		fmt.Printf("\nWhy:\n")
		for _, line := range result.Rationale {
			fmt.Printf("  - %s\n", line)
		}
	}

	if len(result.Alternatives) > 0 {
		fmt.Printf("\nAlternatives:\n")
		for _, alt := range result.Alternatives {
			label := alt.PresetID
			if label == "" {
				label = alt.Source
			}
			fmt.Printf("  %4d DPI  %5dx%-5d  score %.3f  (%s)\n",
				alt.DPI, alt.Resolution.Width, alt.Resolution.Height, alt.Score, label)
		}
	}

	for _, warning := range result.Warnings {
		fmt.Printf("\nWarning: %s\n", warning)
	}
}
