package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/alde/pixelwise/internal/worker"
	"github.com/alde/pixelwise/pkg/encode"
	"github.com/alde/pixelwise/pkg/optimize"
	"github.com/alde/pixelwise/pkg/pixelwise"
)

var (
	optimizeMode        string
	optimizePerformance string
	optimizeFormat      string
	optimizeOutputDir   string
	optimizeTimeout     time.Duration
	optimizeMemoryMB    int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [image files...]",
	Short: "Optimize images through the quality pipeline",
	Long: `Run images through the optimization pipeline (tone, noise reduction,
sharpening, color reduction, compression proxy) and encode the results.

Examples:
  pixelwise optimize photo.png
  pixelwise optimize *.jpg --mode aggressive --format webp
  pixelwise optimize scans/*.png --performance speed -o optimized/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optimizeMode, "mode", "m", "balanced", "Optimization mode (balanced, quality, aggressive)")
	optimizeCmd.Flags().StringVar(&optimizePerformance, "performance", "balanced", "Batch parallelism (speed, balanced, quality)")
	optimizeCmd.Flags().StringVarP(&optimizeFormat, "format", "f", "png", "Output format (png, jpeg, webp)")
	optimizeCmd.Flags().StringVarP(&optimizeOutputDir, "output-dir", "o", "", "Output directory (default: alongside input)")
	optimizeCmd.Flags().DurationVar(&optimizeTimeout, "timeout", 0, "Per-image render timeout (0 = none)")
	optimizeCmd.Flags().IntVar(&optimizeMemoryMB, "memory-limit", 512, "Pipeline memory ceiling in MB")
}

// optimizeJob runs one image through the pipeline and encodes the result.
type optimizeJob struct {
	inputPath string
	pipeline  *optimize.Pipeline
	encoder   *encode.Encoder
	config    optimize.Config

	mu      *sync.Mutex
	summary *optimizeSummary
}

type optimizeSummary struct {
	processed   int
	totalInput  uint64
	totalOutput uint64
}

func (j *optimizeJob) ID() string {
	return filepath.Base(j.inputPath)
}

func (j *optimizeJob) Process(ctx context.Context) error {
	source, err := imaging.Open(j.inputPath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	result, err := j.pipeline.Optimize(ctx, source, j.config)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	outputPath, size, err := j.encoder.EncodeFile(outputPathFor(j.inputPath), result.Image, j.config.Mode)
	if err != nil {
		return err
	}

	inputStat, err := os.Stat(j.inputPath)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	slog.Debug("optimized image",
		"input", j.inputPath, "output", outputPath,
		"stages", result.AppliedStages, "quality", result.QualityScore,
		"psnr", result.Metrics.PSNR, "duration", result.Duration)

	j.mu.Lock()
	j.summary.processed++
	j.summary.totalInput += uint64(inputStat.Size())
	j.summary.totalOutput += uint64(size)
	j.mu.Unlock()
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	mode, err := parseOptimizeMode(optimizeMode)
	if err != nil {
		return err
	}
	performance, err := pixelwise.ParsePerformanceMode(optimizePerformance)
	if err != nil {
		return err
	}
	format, err := encode.ParseFormat(optimizeFormat)
	if err != nil {
		return err
	}

	for _, path := range args {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", path)
		}
	}
	if optimizeOutputDir != "" {
		if err := os.MkdirAll(optimizeOutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	config := optimize.DefaultConfig(mode)
	config.RenderTimeout = optimizeTimeout

	monitor := optimize.NewMemoryMonitor(uint64(optimizeMemoryMB)*1024*1024, slog.Default())
	monitor.Start(cmd.Context())
	pipeline := optimize.NewPipeline(monitor, slog.Default())
	encoder := encode.NewEncoder(format)

	summary := &optimizeSummary{}
	var mu sync.Mutex

	pool := worker.NewPoolWithProgress(performance.ConcurrencyLevel(), len(args))
	pool.Start()

	started := time.Now()
	go func() {
		for _, path := range args {
			pool.Submit(&optimizeJob{
				inputPath: path,
				pipeline:  pipeline,
				encoder:   encoder,
				config:    config,
				mu:        &mu,
				summary:   summary,
			})
		}
	}()

	var failures []string
	for i := 0; i < len(args); i++ {
		result := <-pool.Results()
		if result.Error != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", result.JobID, result.Error))
		}
	}
	pool.Stop()

	displayOptimizeSummary(summary, failures, time.Since(started))
	if len(failures) == len(args) {
		return fmt.Errorf("all %d images failed to optimize", len(args))
	}
	return nil
}

// parseOptimizeMode maps a mode name onto an optimize.Mode.
func parseOptimizeMode(name string) (optimize.Mode, error) {
	switch name {
	case "balanced", "":
		return optimize.ModeBalanced, nil
	case "quality":
		return optimize.ModeQuality, nil
	case "aggressive":
		return optimize.ModeAggressive, nil
	default:
		return 0, fmt.Errorf("unknown optimization mode '%s'. Available modes: [balanced quality aggressive]", name)
	}
}

// outputPathFor places the output next to the input, or in the output
// directory when one was given. The encoder swaps the extension.
func outputPathFor(inputPath string) string {
	base := filepath.Base(inputPath)
	name := base[:len(base)-len(filepath.Ext(base))]
	dir := filepath.Dir(inputPath)
	if optimizeOutputDir != "" {
		dir = optimizeOutputDir
	}
	return filepath.Join(dir, name+"_optimized"+filepath.Ext(base))
}

func displayOptimizeSummary(summary *optimizeSummary, failures []string, elapsed time.Duration) {
	fmt.Printf("\nOptimization completed\n")
	fmt.Printf("================================================================\n")
	fmt.Printf("Images:        %d processed, %d failed\n", summary.processed, len(failures))
	fmt.Printf("Input:         %s\n", humanize.Bytes(summary.totalInput))
	fmt.Printf("Output:        %s\n", humanize.Bytes(summary.totalOutput))

	if summary.totalInput > 0 {
		ratio := float64(summary.totalOutput) / float64(summary.totalInput)
		if ratio < 1.0 {
			fmt.Printf("Compression:   %.1f%% size reduction\n", (1.0-ratio)*100)
		} else {
			fmt.Printf("Size change:   %.1f%% increase\n", (ratio-1.0)*100)
		}
	}
	fmt.Printf("Processing:    %v\n", elapsed.Round(time.Millisecond))

	for _, failure := range failures {
		fmt.Printf("Failed:        %s\n", failure)
	}
}
