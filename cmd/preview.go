package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/preview"
)

var (
	previewDPIList   []int
	previewMaxWidth  int
	previewMaxHeight int
	previewAlgorithm string
)

var previewCmd = &cobra.Command{
	Use:   "preview [image file]",
	Short: "Compare an image at several DPI settings",
	Long: `Render downscaled previews of an image at several DPI settings and
compare them on quality, estimated file size and render time.

Examples:
  pixelwise preview photo.png
  pixelwise preview scan.jpg --dpi 96,150,300
  pixelwise preview poster.png --dpi 150,300,600 --algorithm bicubic`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntSliceVar(&previewDPIList, "dpi", []int{96, 150, 300}, "DPI values to compare")
	previewCmd.Flags().IntVar(&previewMaxWidth, "max-width", 0, "Preview width ceiling in pixels (0 = default)")
	previewCmd.Flags().IntVar(&previewMaxHeight, "max-height", 0, "Preview height ceiling in pixels (0 = default)")
	previewCmd.Flags().StringVar(&previewAlgorithm, "algorithm", "lanczos", "Scaling algorithm (nearest, bilinear, bicubic, lanczos)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	algorithm, err := pixelwise.ParseScalingAlgorithm(previewAlgorithm)
	if err != nil {
		return err
	}

	source, err := imaging.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	generator := preview.NewGenerator(preview.NewImageRasterizer(), slog.Default())
	comparison, err := generator.Compare(cmd.Context(), source, previewDPIList, preview.Options{
		MaxWidth:  previewMaxWidth,
		MaxHeight: previewMaxHeight,
		Algorithm: algorithm,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	fmt.Printf("Preview comparison: %s\n", args[0])
	fmt.Printf("================================================================\n")
	fmt.Printf("%5s  %11s  %8s  %10s  %10s\n", "DPI", "Preview", "Quality", "Est. size", "Render")
	for _, result := range comparison.Previews {
		marker := " "
		if result == comparison.Recommended {
			marker = "*"
		}
		fmt.Printf("%s%4d  %5dx%-5d  %8.3f  %10s  %10s\n",
			marker, result.DPI, result.Width, result.Height,
			result.QualityScore,
			humanize.Bytes(uint64(result.EstimatedFileSize)),
			result.RenderTime.Round(time.Millisecond))
	}

	fmt.Printf("\nBest quality:   %d DPI\n", comparison.BestQuality.DPI)
	fmt.Printf("Smallest file:  %d DPI\n", comparison.SmallestFile.DPI)
	fmt.Printf("Fastest render: %d DPI\n", comparison.FastestRender.DPI)
	fmt.Printf("Recommended:    %d DPI\n", comparison.Recommended.DPI)

	for _, warning := range comparison.Warnings {
		fmt.Printf("\nWarning: %s\n", warning)
	}
	return nil
}
