package main

import (
	"github.com/spf13/cobra"
)

var typesCategory string

var typesCmd = &cobra.Command{
	Use:   "types <file>",
	Short: "List the entity types present in a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypes,
}

func init() {
	typesCmd.Flags().StringVar(&typesCategory, "category", "", "Entity category (default from config)")
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	m, err := openModel(args[0])
	if err != nil {
		return err
	}
	cat := category(typesCategory)
	return printResponse(cmd, &TypesResponseCLI{
		File:     args[0],
		Category: cat,
		Types:    m.DistinctTypeNames(cat),
	})
}
