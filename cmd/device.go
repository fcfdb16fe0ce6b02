package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/alde/pixelwise/pkg/device"
)

var deviceFresh bool

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Detect and show host device capabilities",
	Long: `Detect the host device's capabilities and show the classification
the recommendation engine works from: device type, performance tier,
the usable DPI envelope and the largest safe render surface.

Examples:
  pixelwise device
  pixelwise device --fresh`,
	RunE: runDevice,
}

func init() {
	rootCmd.AddCommand(deviceCmd)

	deviceCmd.Flags().BoolVar(&deviceFresh, "fresh", false, "Bypass the detection cache")
}

func runDevice(cmd *cobra.Command, args []string) error {
	detector := device.NewDetector(device.NewHostProvider())

	var result device.DetectionResult
	if deviceFresh {
		result = detector.DetectFresh()
	} else {
		result = detector.Detect()
	}

	caps := result.Capabilities
	fmt.Printf("Device capabilities\n")
	fmt.Printf("================================================================\n")
	fmt.Printf("Type:          %s\n", caps.DeviceType)
	fmt.Printf("Tier:          %s\n", caps.PerformanceTier)
	fmt.Printf("Screen:        %dx%d (touch: %v)\n", caps.Screen.Width, caps.Screen.Height, caps.Screen.TouchCapable)
	fmt.Printf("Pixel density: %.2fx (%d effective DPI)\n", caps.PixelDensity.Ratio, caps.PixelDensity.EffectiveDPI)
	fmt.Printf("Memory:        %.1f GB device, %s heap ceiling\n",
		caps.Memory.DeviceMemoryGB, humanize.Bytes(caps.Memory.HeapCeilingBytes))

	features := []struct {
		name    string
		enabled bool
	}{
		{"parallel raster", caps.Features.ParallelRaster},
		{"worker threads", caps.Features.WorkerThreads},
		{"shared memory", caps.Features.SharedMemory},
		{"offscreen render", caps.Features.OffscreenRender},
	}
	fmt.Printf("Features:      ")
	enabled := 0
	for _, feature := range features {
		if feature.enabled {
			if enabled > 0 {
				fmt.Printf(", ")
			}
			fmt.Printf("%s", feature.name)
			enabled++
		}
	}
	if enabled == 0 {
		fmt.Printf("none")
	}
	fmt.Println()

	rec := result.Recommended
	fmt.Printf("\nRecommended limits\n")
	fmt.Printf("DPI envelope:  %d / %d / %d (min / optimal / max)\n",
		rec.Envelope.Min, rec.Envelope.Optimal, rec.Envelope.Max)
	fmt.Printf("Max surface:   %dx%d\n", rec.MaxSafeWidth, rec.MaxSafeHeight)
	fmt.Printf("Detected at:   %s\n", result.DetectedAt.Format("15:04:05"))

	return nil
}
