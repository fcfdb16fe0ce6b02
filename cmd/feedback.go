package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alde/pixelwise/pkg/engine"
	"github.com/alde/pixelwise/pkg/pixelwise"
)

var (
	feedbackPurpose      string
	feedbackDevice       string
	feedbackDPI          int
	feedbackWidth        int
	feedbackHeight       int
	feedbackSatisfaction float64
	feedbackFileSize     int64
	feedbackDataDir      string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record satisfaction with an export to improve future recommendations",
	Long: `Record how satisfied you were with an export. Future recommendations
for the same purpose weigh recorded satisfaction near the chosen DPI.

Examples:
  pixelwise feedback --purpose print --dpi 300 --width 2480 --height 3508 --satisfaction 0.9
  pixelwise feedback --purpose web --dpi 96 --width 1920 --height 1080 --satisfaction 0.4`,
	RunE: runFeedback,
}

func init() {
	rootCmd.AddCommand(feedbackCmd)

	feedbackCmd.Flags().StringVarP(&feedbackPurpose, "purpose", "p", "", "Export purpose the choice was made for (required)")
	feedbackCmd.Flags().StringVar(&feedbackDevice, "device", "auto", "Device type the export targeted")
	feedbackCmd.Flags().IntVar(&feedbackDPI, "dpi", 0, "Chosen DPI (required)")
	feedbackCmd.Flags().IntVar(&feedbackWidth, "width", 0, "Chosen output width in pixels (required)")
	feedbackCmd.Flags().IntVar(&feedbackHeight, "height", 0, "Chosen output height in pixels (required)")
	feedbackCmd.Flags().Float64Var(&feedbackSatisfaction, "satisfaction", 0, "Satisfaction with the result, 0..1 (required)")
	feedbackCmd.Flags().Int64Var(&feedbackFileSize, "file-size", 0, "Measured output file size in bytes (optional)")
	feedbackCmd.Flags().StringVar(&feedbackDataDir, "data-dir", "", "Directory for recorded feedback (default: user cache dir)")

	feedbackCmd.MarkFlagRequired("purpose")
	feedbackCmd.MarkFlagRequired("dpi")
	feedbackCmd.MarkFlagRequired("width")
	feedbackCmd.MarkFlagRequired("height")
	feedbackCmd.MarkFlagRequired("satisfaction")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	purpose, err := pixelwise.ParsePurpose(feedbackPurpose)
	if err != nil {
		return err
	}
	deviceType, err := pixelwise.ParseDeviceType(feedbackDevice)
	if err != nil {
		return err
	}
	if feedbackSatisfaction < 0 || feedbackSatisfaction > 1 {
		return fmt.Errorf("satisfaction must be between 0 and 1, got %g", feedbackSatisfaction)
	}

	eng, err := buildEngine(feedbackDataDir)
	if err != nil {
		return err
	}

	var actual *engine.ActualMetrics
	if feedbackFileSize > 0 {
		actual = &engine.ActualMetrics{FileSizeBytes: feedbackFileSize}
	}

	eng.RecordChoice(
		pixelwise.RecommendationContext{Purpose: purpose, DeviceType: deviceType},
		engine.ChosenSettings{DPI: feedbackDPI, Width: feedbackWidth, Height: feedbackHeight},
		feedbackSatisfaction,
		actual,
	)

	fmt.Printf("Recorded %s feedback: %d DPI at %dx%d, satisfaction %.2f\n",
		purpose, feedbackDPI, feedbackWidth, feedbackHeight, feedbackSatisfaction)
	return nil
}
