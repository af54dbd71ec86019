package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/export"
	"ifcaudit/internal/flatten"
)

var (
	attributesType     string
	attributesKeys     string
	attributesRollup   bool
	attributesDescribe bool
	attributesOutput   string
	attributesCompress bool
)

var attributesCmd = &cobra.Command{
	Use:   "attributes <file>",
	Short: "Flatten the properties and quantities of one entity type",
	Long: `Build a table with one row per element of the given type. The columns
are the identity fields (id, globalId, typeName, predefinedType, name,
container, typeObject) followed by every Pset.Property and Qto.Quantity key
found on any of the elements. Missing values are empty.

Examples:
  ifcaudit attributes house.ifc --type IfcWall
  ifcaudit attributes house.ifc --type IfcWall --keys name,Pset_WallCommon.FireRating --format csv
  ifcaudit attributes house.ifc --type IfcWall --output walls.json --compress
  ifcaudit attributes house.ifc --type IfcWindow --rollup
  ifcaudit attributes house.ifc --type IfcSlab --describe`,
	Args: cobra.ExactArgs(1),
	RunE: runAttributes,
}

func init() {
	attributesCmd.Flags().StringVar(&attributesType, "type", "", "Entity type to flatten (required)")
	attributesCmd.Flags().StringVar(&attributesKeys, "keys", "", "Comma separated columns to resolve instead of all")
	attributesCmd.Flags().BoolVar(&attributesRollup, "rollup", false, "Count elements per container and type")
	attributesCmd.Flags().BoolVar(&attributesDescribe, "describe", false, "Summarize the numeric columns")
	attributesCmd.Flags().StringVar(&attributesOutput, "output", "", "Write the table to a file (format from extension)")
	attributesCmd.Flags().BoolVar(&attributesCompress, "compress", false, "zstd-compress the output file")
	rootCmd.AddCommand(attributesCmd)
}

func runAttributes(cmd *cobra.Command, args []string) error {
	if err := requireFlag("type", attributesType); err != nil {
		return err
	}
	if attributesRollup && attributesDescribe {
		return errors.Newf(errors.InvalidInput, "--rollup and --describe are mutually exclusive")
	}
	m, err := openModel(args[0])
	if err != nil {
		return err
	}
	elements := m.AllOfType(attributesType)
	f := flatten.NewFlattener(m, appLogger)

	table := f.Table(elements)
	if keys := splitList(attributesKeys); len(keys) > 0 && !attributesRollup {
		table = flatten.Table{Columns: keys, Rows: f.BuildRows(elements, keys)}
	}

	switch {
	case attributesRollup:
		return printResponse(cmd, &RollupResponseCLI{
			File:    args[0],
			Type:    attributesType,
			Entries: flatten.RollupByContainerAndType(table.Rows),
		})
	case attributesDescribe:
		return printResponse(cmd, &DescribeResponseCLI{
			File:  args[0],
			Type:  attributesType,
			Stats: flatten.Describe(table),
		})
	case attributesOutput != "":
		return writeAttributesFile(cmd, table)
	}

	format, err := effectiveFormat()
	if err != nil {
		return err
	}
	if format == FormatHuman {
		return printResponse(cmd, &AttributesResponseCLI{File: args[0], Type: attributesType, Table: table})
	}
	return export.NewExporter(appLogger).WriteTable(cmd.OutOrStdout(), table, export.Options{Format: export.Format(format)})
}

func writeAttributesFile(cmd *cobra.Command, table flatten.Table) error {
	format := export.FormatForPath(attributesOutput)
	if formatFlag != "" {
		f, err := ParseOutputFormat(formatFlag)
		if err != nil {
			return err
		}
		if f != FormatHuman {
			format = export.Format(f)
		}
	}
	opts := export.Options{
		Format:   format,
		Compress: attributesCompress || currentConfig().Output.Compress,
	}
	path, err := export.NewExporter(appLogger).WriteFile(attributesOutput, table, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(table.Rows), path)
	return nil
}
