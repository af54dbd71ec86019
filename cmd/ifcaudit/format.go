package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/model"
	"ifcaudit/internal/output"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatCSV   OutputFormat = "csv"
)

// ParseOutputFormat accepts human, json, yaml (or yml) and csv.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "human", "text":
		return FormatHuman, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", errors.Newf(errors.InvalidInput, "unsupported format: %s", s)
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatCSV:
		return formatCSV(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", errors.Newf(errors.InvalidInput, "unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := output.DeterministicEncodeIndented(resp, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatCSV(resp interface{}) (string, error) {
	t, ok := resp.(csvTable)
	if !ok {
		return "", errors.Newf(errors.InvalidInput, "unsupported format: csv output is only available for tables")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(t.csvRows()); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.String(), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *CountResponseCLI:
		return formatCountHuman(v), nil
	case *TypesResponseCLI:
		return formatTypesHuman(v), nil
	case *BreakdownResponseCLI:
		return formatBreakdownHuman(v), nil
	case *CompareResponseCLI:
		return formatCompareHuman(v), nil
	case *AttributesResponseCLI:
		return formatAttributesHuman(v), nil
	case *RollupResponseCLI:
		return formatRollupHuman(v), nil
	case *DescribeResponseCLI:
		return formatDescribeHuman(v), nil
	case *WindowsResponseCLI:
		return formatWindowsHuman(v), nil
	case *InfoResponseCLI:
		return formatInfoHuman(v), nil
	case *HashResponseCLI:
		return fmt.Sprintf("%s  %s (%s)\n", v.Hash, v.File, v.Algorithm), nil
	case *RevisionLogResponseCLI:
		return formatRevisionLogHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func heading(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
}

// table writes tab-aligned rows; the first row is the header.
func table(b *strings.Builder, rows [][]string) {
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for i, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
		if i == 0 {
			dashes := make([]string, len(row))
			for j, h := range row {
				dashes[j] = strings.Repeat("-", len(h))
			}
			fmt.Fprintln(tw, strings.Join(dashes, "\t"))
		}
	}
	tw.Flush()
}

func formatCountHuman(r *CountResponseCLI) string {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Element count - %s (%s)", r.File, r.Category))
	table(&b, r.csvRows())
	fmt.Fprintf(&b, "\nTotal: %d elements in %d types\n", r.Total, len(r.Counts))
	return b.String()
}

func formatTypesHuman(r *TypesResponseCLI) string {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Entity types - %s (%s)", r.File, r.Category))
	for _, t := range r.Types {
		b.WriteString("  " + t + "\n")
	}
	fmt.Fprintf(&b, "\n%d types\n", len(r.Types))
	return b.String()
}

func formatBreakdownHuman(r *BreakdownResponseCLI) string {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Name breakdown of %s - %s", r.Type, r.File))
	if len(r.Prefixes) == 0 {
		fmt.Fprintf(&b, "No %s elements.\n", r.Type)
		return b.String()
	}
	table(&b, r.csvRows())
	fmt.Fprintf(&b, "\nTotal: %d\n", r.Total)
	return b.String()
}

func formatCompareHuman(r *CompareResponseCLI) string {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Comparison (%s)", r.Category))
	fmt.Fprintf(&b, "A: %s\nB: %s\n\n", r.FileA, r.FileB)

	rows := [][]string{{"Type", "A", "B", "A-B"}}
	changed := 0
	for _, c := range r.Rows {
		diff := fmt.Sprintf("%+d", c.Difference)
		if c.Difference == 0 {
			diff = "0"
		} else {
			changed++
		}
		rows = append(rows, []string{c.TypeName, fmt.Sprint(c.CountA), fmt.Sprint(c.CountB), diff})
	}
	table(&b, rows)
	fmt.Fprintf(&b, "\n%d of %d types changed\n", changed, len(r.Rows))
	return b.String()
}

func formatAttributesHuman(r *AttributesResponseCLI) string {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Attributes of %s - %s", r.Type, r.File))
	if len(r.Table.Rows) == 0 {
		fmt.Fprintf(&b, "No %s elements.\n", r.Type)
		return b.String()
	}
	rows := [][]string{r.Table.Columns}
	for _, row := range r.Table.Rows {
		cells := make([]string, len(r.Table.Columns))
		for i, col := range r.Table.Columns {
			cells[i] = humanCell(row.Get(col))
		}
		rows = append(rows, cells)
	}
	table(&b, rows)
	fmt.Fprintf(&b, "\n%d rows, %d columns\n", len(r.Table.Rows), len(r.Table.Columns))
	return b.String()
}

func humanCell(v model.Value) string {
	switch v.Kind() {
	case model.ValueAbsent:
		return "-"
	case model.ValueNumber:
		f, _ := v.AsNumber()
		return output.FormatFloat(f)
	}
	return v.String()
}

func formatRollupHuman(r *RollupResponseCLI) string {
	var b strings.Builder
	heading(&b, fmt.Sprintf("%s by container and type - %s", r.Type, r.File))
	rows := [][]string{{"Container", "Type", "Count"}}
	for _, e := range r.Entries {
		container := e.Container
		if container == "" {
			container = "(none)"
		}
		rows = append(rows, []string{container, e.TypeLabel, fmt.Sprint(e.Count)})
	}
	table(&b, rows)
	return b.String()
}

func formatDescribeHuman(r *DescribeResponseCLI) string {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Numeric attributes of %s - %s", r.Type, r.File))
	if len(r.Stats) == 0 {
		b.WriteString("No numeric attributes.\n")
		return b.String()
	}
	table(&b, r.csvRows())
	return b.String()
}

func formatWindowsHuman(r *WindowsResponseCLI) string {
	var b strings.Builder
	heading(&b, "Windows - "+r.File)
	rows := [][]string{{"ID", "Name", "Glass area", "Orientation", "Azimuth"}}
	for _, w := range r.Windows {
		name := w.Name
		if name == "" {
			name = model.UnnamedLabel
		}
		azimuth := "-"
		if w.Azimuth != nil {
			azimuth = output.FormatFloat(*w.Azimuth) + "°"
		}
		rows = append(rows, []string{fmt.Sprintf("#%d", w.ID), name, output.FormatFloat(w.Area), w.Orientation, azimuth})
	}
	table(&b, rows)
	fmt.Fprintf(&b, "\nTotal glass area: %s (%d windows)\n", output.FormatFloat(r.TotalGlassArea), len(r.Windows))
	return b.String()
}

func formatInfoHuman(r *InfoResponseCLI) string {
	var b strings.Builder
	heading(&b, "Model - "+r.File)
	fmt.Fprintf(&b, "Size:      %s\n", humanize.Bytes(uint64(r.SizeBytes)))
	fmt.Fprintf(&b, "Schema:    %s\n", r.Schema)
	if r.Originating != "" {
		fmt.Fprintf(&b, "Authoring: %s\n", r.Originating)
	}
	if r.TimeStamp != "" {
		fmt.Fprintf(&b, "Written:   %s\n", r.TimeStamp)
	}
	fmt.Fprintf(&b, "Elements:  %d (%d products)\n\n", r.Elements, r.Products)

	if r.Project == nil {
		fmt.Fprintf(&b, "Project:   unavailable (%s)\n", r.ProjectProblem)
		return b.String()
	}
	p := r.Project
	b.WriteString("Project:\n")
	fmt.Fprintf(&b, "  Name:        %s\n", p.Name)
	if p.LongName != "" {
		fmt.Fprintf(&b, "  Long name:   %s\n", p.LongName)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "  Description: %s\n", p.Description)
	}
	if p.Phase != "" {
		fmt.Fprintf(&b, "  Phase:       %s\n", p.Phase)
	}
	if p.CreationDate != nil {
		fmt.Fprintf(&b, "  Created:     %s (%s)\n", p.CreationDate.Format("2006-01-02 15:04 MST"), humanize.Time(*p.CreationDate))
	}
	if p.Application != "" {
		fmt.Fprintf(&b, "  Application: %s\n", p.Application)
	}
	fmt.Fprintf(&b, "  GlobalId:    %s\n", p.GlobalID)
	return b.String()
}

func formatRevisionLogHuman(r *RevisionLogResponseCLI) string {
	var b strings.Builder
	heading(&b, "Revision log - "+r.FileName)
	if len(r.Records) == 0 {
		b.WriteString("No revisions recorded.\n")
		return b.String()
	}
	for i, rec := range r.Records {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, rec.TimestampISO(), rec.ApprovalStatus)
		fmt.Fprintf(&b, "   %s: %s\n", rec.Algorithm, rec.FileHash)
		if rec.Author != "" {
			fmt.Fprintf(&b, "   Author:  %s\n", rec.Author)
		}
		if rec.Description != "" {
			fmt.Fprintf(&b, "   %s\n", rec.Description)
		}
		if rec.Comments != "" {
			fmt.Fprintf(&b, "   Comments: %s\n", rec.Comments)
		}
	}
	if r.Embedded != "" {
		fmt.Fprintf(&b, "\nLatest record embedded in %s\n", r.Embedded)
	}
	return b.String()
}
