package main

import (
	"strings"
	"testing"

	"ifcaudit/internal/census"
	"ifcaudit/internal/flatten"
	"ifcaudit/internal/glazing"
	"ifcaudit/internal/model"
	"ifcaudit/internal/revision"
)

func TestFormatResponse_JSON(t *testing.T) {
	resp := &CountResponseCLI{
		File:     "house.ifc",
		Category: "IfcProduct",
		Total:    3,
		Counts:   []census.Tally{{Label: "IfcWall", Count: 2}, {Label: "IfcDoor", Count: 1}},
	}

	result, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{
  "category": "IfcProduct",
  "counts": [
    {
      "count": 2,
      "label": "IfcWall"
    },
    {
      "count": 1,
      "label": "IfcDoor"
    }
  ],
  "file": "house.ifc",
  "total": 3
}
`
	if result != want {
		t.Errorf("JSON =\n%s\nwant\n%s", result, want)
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	resp := map[string]string{"key": "value"}

	_, err := FormatResponse(resp, "xml")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatResponse_YAML(t *testing.T) {
	resp := &HashResponseCLI{File: "house.ifc", Algorithm: "md5", Hash: "abc"}

	result, err := FormatResponse(resp, FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "file: house.ifc\nalgorithm: md5\nhash: abc\n"
	if result != want {
		t.Errorf("YAML = %q, want %q", result, want)
	}
}

func TestFormatResponse_CSV(t *testing.T) {
	resp := &CompareResponseCLI{
		Rows: []census.ComparisonRow{
			{TypeName: "IfcDoor", CountA: 1, CountB: 3, Difference: -2},
			{TypeName: "IfcWall, curtain", CountA: 2, CountB: 2},
		},
	}
	result, err := FormatResponse(resp, FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "typeName,countA,countB,difference\nIfcDoor,1,3,-2\n\"IfcWall, curtain\",2,2,0\n"
	if result != want {
		t.Errorf("CSV = %q, want %q", result, want)
	}

	if _, err := FormatResponse(&InfoResponseCLI{}, FormatCSV); err == nil {
		t.Error("CSV of a non-table response should fail")
	}
}

func TestFormatHuman(t *testing.T) {
	azimuth := 270.0
	tests := []struct {
		name     string
		resp     interface{}
		contains []string
	}{
		{
			name: "count",
			resp: &CountResponseCLI{File: "a.ifc", Category: "IfcProduct", Total: 2,
				Counts: []census.Tally{{Label: "IfcWall", Count: 2}}},
			contains: []string{"Element count - a.ifc (IfcProduct)", "IfcWall", "Total: 2 elements in 1 types"},
		},
		{
			name: "compare",
			resp: &CompareResponseCLI{FileA: "a.ifc", FileB: "b.ifc", Category: "IfcProduct",
				Rows: []census.ComparisonRow{
					{TypeName: "IfcDoor", CountA: 3, CountB: 1, Difference: 2},
					{TypeName: "IfcSlab", CountA: 1, CountB: 1},
				}},
			contains: []string{"A: a.ifc", "B: b.ifc", "+2", "1 of 2 types changed"},
		},
		{
			name: "windows",
			resp: &WindowsResponseCLI{File: "a.ifc", TotalGlassArea: 0.54,
				Windows: []glazing.Record{{ID: 80, Area: 0.54, Orientation: glazing.South, Azimuth: &azimuth}}},
			contains: []string{"#80", "Unnamed", "0.54", "270°", "Total glass area: 0.54 (1 windows)"},
		},
		{
			name: "attributes",
			resp: &AttributesResponseCLI{File: "a.ifc", Type: "IfcWall", Table: flatten.Table{
				Columns: []string{"id", "Pset_WallCommon.FireRating"},
				Rows:    []flatten.Row{{"id": model.Number(40)}},
			}},
			contains: []string{"Pset_WallCommon.FireRating", "40", "-", "1 rows, 2 columns"},
		},
		{
			name:     "empty breakdown",
			resp:     &BreakdownResponseCLI{File: "a.ifc", Type: "IfcBeam"},
			contains: []string{"No IfcBeam elements."},
		},
		{
			name:     "info without project",
			resp:     &InfoResponseCLI{File: "a.ifc", SizeBytes: 2048, Schema: "IFC4", ProjectProblem: "no IfcProject"},
			contains: []string{"2.0 kB", "IFC4", "unavailable (no IfcProject)"},
		},
		{
			name: "revision log",
			resp: &RevisionLogResponseCLI{FileName: "a.ifc", Records: []revision.Record{
				{FileHash: "abc", Algorithm: revision.SHA256, Author: "Jo", ApprovalStatus: revision.Approved},
			}},
			contains: []string{"Revision log - a.ifc", "Approved", "sha256: abc", "Author:  Jo"},
		},
		{
			name:     "empty revision log",
			resp:     &RevisionLogResponseCLI{FileName: "a.ifc"},
			contains: []string{"No revisions recorded."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := formatHuman(tt.resp)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("output missing %q:\n%s", s, result)
				}
			}
		})
	}
}

func TestFormatHuman_FallsBackToJSON(t *testing.T) {
	result, err := formatHuman(map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "{\n  \"n\": 1\n}\n" {
		t.Errorf("fallback = %q", result)
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatHuman, false},
		{"human", FormatHuman, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v; want %q, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
