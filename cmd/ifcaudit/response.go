package main

import (
	"strconv"
	"time"

	"ifcaudit/internal/census"
	"ifcaudit/internal/flatten"
	"ifcaudit/internal/glazing"
	"ifcaudit/internal/model"
	"ifcaudit/internal/output"
	"ifcaudit/internal/revision"
)

// csvTable is implemented by responses that can be printed as CSV. The
// first row is the header.
type csvTable interface {
	csvRows() [][]string
}

// CountResponseCLI is the output of count.
type CountResponseCLI struct {
	File     string         `json:"file" yaml:"file"`
	Category string         `json:"category" yaml:"category"`
	Total    int            `json:"total" yaml:"total"`
	Counts   []census.Tally `json:"counts" yaml:"counts"`
}

func (r *CountResponseCLI) csvRows() [][]string {
	return talliesCSV("typeName", r.Counts)
}

// TypesResponseCLI is the output of types.
type TypesResponseCLI struct {
	File     string   `json:"file" yaml:"file"`
	Category string   `json:"category" yaml:"category"`
	Types    []string `json:"types" yaml:"types"`
}

func (r *TypesResponseCLI) csvRows() [][]string {
	rows := [][]string{{"typeName"}}
	for _, t := range r.Types {
		rows = append(rows, []string{t})
	}
	return rows
}

// BreakdownResponseCLI is the output of breakdown.
type BreakdownResponseCLI struct {
	File     string         `json:"file" yaml:"file"`
	Type     string         `json:"type" yaml:"type"`
	Total    int            `json:"total" yaml:"total"`
	Prefixes []census.Tally `json:"prefixes" yaml:"prefixes"`
}

func (r *BreakdownResponseCLI) csvRows() [][]string {
	return talliesCSV("prefix", r.Prefixes)
}

func talliesCSV(label string, tallies []census.Tally) [][]string {
	rows := [][]string{{label, "count"}}
	for _, t := range tallies {
		rows = append(rows, []string{t.Label, strconv.Itoa(t.Count)})
	}
	return rows
}

// CompareResponseCLI is the output of compare.
type CompareResponseCLI struct {
	FileA    string                 `json:"fileA" yaml:"fileA"`
	FileB    string                 `json:"fileB" yaml:"fileB"`
	Category string                 `json:"category" yaml:"category"`
	Rows     []census.ComparisonRow `json:"rows" yaml:"rows"`
}

func (r *CompareResponseCLI) csvRows() [][]string {
	rows := [][]string{{"typeName", "countA", "countB", "difference"}}
	for _, c := range r.Rows {
		rows = append(rows, []string{c.TypeName, strconv.Itoa(c.CountA), strconv.Itoa(c.CountB), strconv.Itoa(c.Difference)})
	}
	return rows
}

// AttributesResponseCLI carries a flattened table for human output. The
// structured formats go through the exporter.
type AttributesResponseCLI struct {
	File  string
	Type  string
	Table flatten.Table
}

// RollupResponseCLI is the output of attributes --rollup.
type RollupResponseCLI struct {
	File    string                `json:"file" yaml:"file"`
	Type    string                `json:"type" yaml:"type"`
	Entries []flatten.RollupEntry `json:"entries" yaml:"entries"`
}

func (r *RollupResponseCLI) csvRows() [][]string {
	rows := [][]string{{"container", "typeLabel", "count"}}
	for _, e := range r.Entries {
		rows = append(rows, []string{e.Container, e.TypeLabel, strconv.Itoa(e.Count)})
	}
	return rows
}

// DescribeResponseCLI is the output of attributes --describe.
type DescribeResponseCLI struct {
	File  string                `json:"file" yaml:"file"`
	Type  string                `json:"type" yaml:"type"`
	Stats []flatten.ColumnStats `json:"stats" yaml:"stats"`
}

func (r *DescribeResponseCLI) csvRows() [][]string {
	rows := [][]string{{"column", "count", "mean", "std", "min", "q25", "median", "q75", "max"}}
	for _, s := range r.Stats {
		rows = append(rows, []string{
			s.Column, strconv.Itoa(s.Count),
			output.FormatFloat(s.Mean), output.FormatFloat(s.Std),
			output.FormatFloat(s.Min), output.FormatFloat(s.Q25), output.FormatFloat(s.Median),
			output.FormatFloat(s.Q75), output.FormatFloat(s.Max),
		})
	}
	return rows
}

// WindowsResponseCLI is the output of windows.
type WindowsResponseCLI struct {
	File           string           `json:"file" yaml:"file"`
	Windows        []glazing.Record `json:"windows" yaml:"windows"`
	TotalGlassArea float64          `json:"totalGlassArea" yaml:"totalGlassArea"`
}

func (r *WindowsResponseCLI) csvRows() [][]string {
	rows := [][]string{{"id", "globalId", "name", "area", "orientation", "azimuthDegrees"}}
	for _, w := range r.Windows {
		azimuth := ""
		if w.Azimuth != nil {
			azimuth = output.FormatFloat(*w.Azimuth)
		}
		rows = append(rows, []string{
			strconv.Itoa(w.ID), w.GlobalID, w.Name,
			output.FormatFloat(w.Area), w.Orientation, azimuth,
		})
	}
	return rows
}

// InfoResponseCLI is the output of info.
type InfoResponseCLI struct {
	File           string             `json:"file" yaml:"file"`
	SizeBytes      int64              `json:"sizeBytes" yaml:"sizeBytes"`
	Schema         string             `json:"schema" yaml:"schema"`
	FileName       string             `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	TimeStamp      string             `json:"timeStamp,omitempty" yaml:"timeStamp,omitempty"`
	Originating    string             `json:"originatingSystem,omitempty" yaml:"originatingSystem,omitempty"`
	Elements       int                `json:"elements" yaml:"elements"`
	Products       int                `json:"products" yaml:"products"`
	Project        *model.ProjectInfo `json:"project,omitempty" yaml:"project,omitempty"`
	ProjectProblem string             `json:"projectProblem,omitempty" yaml:"projectProblem,omitempty"`
}

// HashResponseCLI is the output of revision hash.
type HashResponseCLI struct {
	File      string `json:"file" yaml:"file"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Hash      string `json:"hash" yaml:"hash"`
}

func (r *HashResponseCLI) csvRows() [][]string {
	return [][]string{{"file", "algorithm", "hash"}, {r.File, r.Algorithm, r.Hash}}
}

// RevisionLogResponseCLI is the output of revision record and revision log.
type RevisionLogResponseCLI struct {
	FileName string            `json:"fileName" yaml:"fileName"`
	Records  []revision.Record `json:"records" yaml:"records"`
	Embedded string            `json:"embeddedIn,omitempty" yaml:"embeddedIn,omitempty"`
}

func (r *RevisionLogResponseCLI) csvRows() [][]string {
	rows := [][]string{{"id", "fileName", "hash", "algorithm", "timestamp", "author", "description", "approvalStatus", "comments"}}
	for _, rec := range r.Records {
		rows = append(rows, []string{
			rec.ID, rec.FileName, rec.FileHash, string(rec.Algorithm),
			rec.Timestamp.UTC().Format(time.RFC3339), rec.Author, rec.Description,
			string(rec.ApprovalStatus), rec.Comments,
		})
	}
	return rows
}
