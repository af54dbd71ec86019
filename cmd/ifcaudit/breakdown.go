package main

import (
	"github.com/spf13/cobra"

	"ifcaudit/internal/census"
	"ifcaudit/internal/errors"
)

var (
	breakdownType string
	breakdownSort string
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <file>",
	Short: "Count elements of one type by name prefix",
	Long: `Group the elements of one entity type by the part of their name
before the first ':' (the authoring family), and count each group.

Examples:
  ifcaudit breakdown house.ifc --type IfcWall
  ifcaudit breakdown house.ifc --type IfcDoor --sort type`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

func init() {
	breakdownCmd.Flags().StringVar(&breakdownType, "type", "", "Entity type to break down (required)")
	breakdownCmd.Flags().StringVar(&breakdownSort, "sort", "count", "Order: count or type (the prefix label)")
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	if err := requireFlag("type", breakdownType); err != nil {
		return err
	}
	if breakdownSort != "count" && breakdownSort != "type" {
		return errors.Newf(errors.InvalidInput, "unknown sort %q (want count or type)", breakdownSort)
	}
	m, err := openModel(args[0])
	if err != nil {
		return err
	}
	counts := census.BreakdownByName(m.AllOfType(breakdownType))

	resp := &BreakdownResponseCLI{
		File:     args[0],
		Type:     breakdownType,
		Total:    counts.Total(),
		Prefixes: counts.Sorted(),
	}
	if breakdownSort == "type" {
		resp.Prefixes = counts.SortedByLabel()
	}
	return printResponse(cmd, resp)
}
