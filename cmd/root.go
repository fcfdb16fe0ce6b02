package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pixelwise",
	Short: "Recommend and apply optimal export resolutions for images",
	Long: `Pixelwise recommends DPI and pixel resolutions for image exports,
scored against the export purpose, device capabilities and user
constraints, and optimizes surfaces for the chosen target.

Currently supports:
- Resolution and DPI recommendations per purpose (web, print, social, ...)
- Host device capability detection
- Side-by-side DPI preview comparison
- Multi-stage image optimization with quality metrics`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
