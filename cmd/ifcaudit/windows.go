package main

import (
	"github.com/spf13/cobra"

	"ifcaudit/internal/glazing"
)

var (
	windowsLayer string
	windowsKinds string
)

var windowsCmd = &cobra.Command{
	Use:   "windows <file>",
	Short: "Derive glass area and orientation of every window",
	Long: `For every IfcWindow find the glazing solid (the first geometry item on a
presentation layer whose name contains the layer substring), compute its
face area, and classify the window's facing as North, East, South or West
from its placement.

Examples:
  ifcaudit windows house.ifc
  ifcaudit windows house.ifc --layer Glazing --kinds SweptSolid,Brep --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runWindows,
}

func init() {
	windowsCmd.Flags().StringVar(&windowsLayer, "layer", "", "Presentation layer substring marking glass (default from config)")
	windowsCmd.Flags().StringVar(&windowsKinds, "kinds", "", "Comma separated representation kinds to search (default from config)")
	rootCmd.AddCommand(windowsCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
	cfg := currentConfig().Glazing
	layer := cfg.LayerSubstring
	if windowsLayer != "" {
		layer = windowsLayer
	}
	kinds := cfg.RepresentationKinds
	if k := splitList(windowsKinds); len(k) > 0 {
		kinds = k
	}

	m, err := openModel(args[0])
	if err != nil {
		return err
	}
	opts := []glazing.Option{glazing.WithClassifier(glazing.LayerNameContains(layer))}
	if len(kinds) > 0 {
		opts = append(opts, glazing.WithRepresentationKinds(kinds...))
	}
	records, total := glazing.NewDeriver(appLogger, opts...).ExtractAll(m)

	return printResponse(cmd, &WindowsResponseCLI{
		File:           args[0],
		Windows:        records,
		TotalGlassArea: total,
	})
}
