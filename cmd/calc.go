package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/alde/pixelwise/pkg/units"
)

var (
	calcPixelWidth  int
	calcPixelHeight int
	calcPhysWidth   float64
	calcPhysHeight  float64
	calcUnit        string
	calcDPI         int
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Convert between pixel dimensions, physical sizes and DPI",
	Long: `Convert between pixel dimensions, physical print sizes and DPI.
Provide two of the three and the missing one is derived:

  pixels + physical size -> implied DPI
  pixels + DPI           -> physical size
  physical size + DPI    -> pixels

Examples:
  pixelwise calc --width 2480 --height 3508 --phys-width 8.27 --phys-height 11.69 --unit in
  pixelwise calc --width 1920 --height 1080 --dpi 96
  pixelwise calc --phys-width 21 --phys-height 29.7 --unit cm --dpi 300`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().IntVar(&calcPixelWidth, "width", 0, "Pixel width")
	calcCmd.Flags().IntVar(&calcPixelHeight, "height", 0, "Pixel height")
	calcCmd.Flags().Float64Var(&calcPhysWidth, "phys-width", 0, "Physical width")
	calcCmd.Flags().Float64Var(&calcPhysHeight, "phys-height", 0, "Physical height")
	calcCmd.Flags().StringVar(&calcUnit, "unit", "in", "Physical unit (in, cm, mm, pt, pc)")
	calcCmd.Flags().IntVar(&calcDPI, "dpi", 0, "Dots per inch")
}

func runCalc(cmd *cobra.Command, args []string) error {
	unit, err := units.ParseUnit(calcUnit)
	if err != nil {
		return err
	}

	hasPixels := calcPixelWidth > 0 && calcPixelHeight > 0
	hasPhysical := calcPhysWidth > 0 && calcPhysHeight > 0

	var calc units.Calculation
	switch {
	case hasPixels && hasPhysical:
		calc, err = units.DPIFromSize(calcPixelWidth, calcPixelHeight, calcPhysWidth, calcPhysHeight, unit)
	case hasPixels && calcDPI > 0:
		calc, err = units.PhysicalFromPixels(calcPixelWidth, calcPixelHeight, calcDPI, unit)
	case hasPhysical && calcDPI > 0:
		calc, err = units.PixelsFromPhysical(calcPhysWidth, calcPhysHeight, calcDPI, unit)
	default:
		return fmt.Errorf("provide two of: pixel dimensions, physical size, DPI")
	}
	if err != nil {
		return err
	}

	fmt.Printf("DPI:           %d\n", calc.DPI)
	fmt.Printf("Pixels:        %dx%d (%s total)\n",
		calc.PixelWidth, calc.PixelHeight, humanize.Comma(calc.TotalPixels))
	fmt.Printf("Physical:      %g x %g %s\n", calc.PhysicalWidth, calc.PhysicalHeight, calc.Unit)
	fmt.Printf("Pixel ratio:   %.2fx\n", calc.PixelRatio)
	fmt.Printf("Aspect ratio:  %.3f\n", calc.AspectRatio)
	fmt.Printf("Est. size:     %s\n",
		humanize.Bytes(uint64(units.EstimateFileSize(calc.PixelWidth, calc.PixelHeight, calc.DPI))))
	return nil
}
