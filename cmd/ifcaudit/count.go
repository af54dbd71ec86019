package main

import (
	"github.com/spf13/cobra"

	"ifcaudit/internal/census"
)

var countCategory string

var countCmd = &cobra.Command{
	Use:   "count <file>",
	Short: "Count elements per entity type",
	Long: `Count the elements of a category (IfcProduct by default) grouped by
their concrete entity type, largest first.

Examples:
  ifcaudit count house.ifc
  ifcaudit count house.ifc --category IfcBuildingElement --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCount,
}

func init() {
	countCmd.Flags().StringVar(&countCategory, "category", "", "Entity category to count (default from config)")
	rootCmd.AddCommand(countCmd)
}

func category(flag string) string {
	if flag != "" {
		return flag
	}
	return currentConfig().Census.Category
}

func runCount(cmd *cobra.Command, args []string) error {
	m, err := openModel(args[0])
	if err != nil {
		return err
	}
	cat := category(countCategory)
	counts := census.CountCategory(m, cat, appLogger)

	return printResponse(cmd, &CountResponseCLI{
		File:     args[0],
		Category: cat,
		Total:    counts.Total(),
		Counts:   counts.Sorted(),
	})
}
