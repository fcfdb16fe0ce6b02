package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alde/pixelwise/pkg/catalog"
	"github.com/alde/pixelwise/pkg/pixelwise"
)

var presetsPurpose string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the resolution presets in the catalog",
	Long: `List the built-in resolution presets, optionally filtered to the
category matching an export purpose.

Examples:
  pixelwise presets
  pixelwise presets --purpose print`,
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	presetsCmd.Flags().StringVarP(&presetsPurpose, "purpose", "p", "", "Filter to the category for a purpose")
}

func runPresets(cmd *cobra.Command, args []string) error {
	var list []catalog.Preset
	if presetsPurpose == "" {
		list = catalog.All()
	} else {
		purpose, err := pixelwise.ParsePurpose(presetsPurpose)
		if err != nil {
			return err
		}
		list = catalog.ByCategory(catalog.CategoryForPurpose(purpose))
	}

	fmt.Printf("%-18s %-22s %11s  %4s  %-6s %s\n",
		"ID", "Name", "Resolution", "DPI", "Aspect", "Category")
	for _, preset := range list {
		fmt.Printf("%-18s %-22s %5dx%-5d  %4d  %-6s %s\n",
			preset.ID, preset.Name, preset.Width, preset.Height,
			preset.RecommendedDPI, preset.AspectRatioTag, preset.Category)
	}
	return nil
}
