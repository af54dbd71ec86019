// Package export writes flattened attribute tables as delimited text, JSON
// or YAML, optionally zstd-compressed.
package export

import (
	"strings"

	"ifcaudit/internal/errors"
)

// Format is a table export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// CompressedSuffix is appended to compressed export file names.
const CompressedSuffix = ".zst"

// ParseFormat accepts csv, json, yaml or yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Newf(errors.InvalidInput, "unsupported export format %q (want csv, json or yaml)", s)
}

// FormatForPath guesses the format from a file name, ignoring a trailing
// .zst. Unknown extensions are CSV.
func FormatForPath(path string) Format {
	name := strings.ToLower(strings.TrimSuffix(path, CompressedSuffix))
	switch {
	case strings.HasSuffix(name, ".json"):
		return FormatJSON
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return FormatYAML
	}
	return FormatCSV
}

// Options configures an export.
type Options struct {
	Format   Format
	Compress bool
}
