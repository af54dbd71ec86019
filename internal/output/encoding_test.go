package output

import (
	"testing"
	"time"
)

type layerTag string

func (l layerTag) MarshalJSON() ([]byte, error) {
	return []byte(`"layer:` + string(l) + `"`), nil
}

func TestDeterministicEncode(t *testing.T) {
	azimuth := 270.0
	tests := []struct {
		name     string
		input    interface{}
		wantJSON string
	}{
		{
			name: "struct fields sorted by json name",
			input: struct {
				Name  string  `json:"name"`
				Area  float64 `json:"area"`
				Count int     `json:"count"`
			}{Name: "W1", Area: 1.2 * 1.5, Count: 2},
			wantJSON: `{"area":1.8,"count":2,"name":"W1"}`,
		},
		{
			name: "nil pointer omitted",
			input: struct {
				Name    string   `json:"name"`
				Azimuth *float64 `json:"azimuthDegrees"`
			}{Name: "W3"},
			wantJSON: `{"name":"W3"}`,
		},
		{
			name: "pointer dereferenced",
			input: struct {
				Azimuth *float64 `json:"azimuthDegrees"`
			}{Azimuth: &azimuth},
			wantJSON: `{"azimuthDegrees":270}`,
		},
		{
			name: "omitempty zero",
			input: struct {
				Name  string `json:"name"`
				Count int    `json:"count,omitempty"`
				Skip  string `json:"-"`
			}{Name: "test", Skip: "hidden"},
			wantJSON: `{"name":"test"}`,
		},
		{
			name:     "map keys sorted",
			input:    map[string]int{"IfcWindow": 2, "IfcDoor": 5, "IfcWall": 3},
			wantJSON: `{"IfcDoor":5,"IfcWall":3,"IfcWindow":2}`,
		},
		{
			name:     "int map keys",
			input:    map[int]string{20: "b", 10: "a"},
			wantJSON: `{"10":"a","20":"b"}`,
		},
		{
			name:     "nil map entries dropped",
			input:    map[string]interface{}{"a": nil, "b": 1},
			wantJSON: `{"b":1}`,
		},
		{
			name:     "empty slice kept",
			input:    []string{},
			wantJSON: `[]`,
		},
		{
			name:     "empty map kept",
			input:    map[string]int{},
			wantJSON: `{}`,
		},
		{
			name:     "nil slice",
			input:    []string(nil),
			wantJSON: `null`,
		},
		{
			name:     "nil value",
			input:    nil,
			wantJSON: `null`,
		},
		{
			name: "marshaler passthrough",
			input: map[string]interface{}{
				"layer": layerTag("Glass"),
				"at":    time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
			},
			wantJSON: `{"at":"2024-05-02T09:30:00Z","layer":"layer:Glass"}`,
		},
		{
			name:     "html not escaped",
			input:    []string{"<a&b>"},
			wantJSON: `["<a&b>"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeterministicEncode(tt.input)
			if err != nil {
				t.Fatalf("DeterministicEncode() error = %v", err)
			}
			if string(got) != tt.wantJSON {
				t.Errorf("DeterministicEncode() = %s, want %s", got, tt.wantJSON)
			}
		})
	}
}

func TestDeterministicEncodeConsistency(t *testing.T) {
	data := map[string]interface{}{
		"walls":   map[string]int{"IfcWall": 3, "IfcWallStandardCase": 1},
		"windows": []float64{1.8, 0.54, 0},
		"project": "Riverside House",
	}

	first, err := DeterministicEncode(data)
	if err != nil {
		t.Fatalf("DeterministicEncode() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := DeterministicEncode(data)
		if err != nil {
			t.Fatalf("DeterministicEncode() error = %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("encoding %d differs:\n%s\n%s", i, first, again)
		}
	}
}

func TestDeterministicEncodeIndented(t *testing.T) {
	got, err := DeterministicEncodeIndented(map[string]int{"b": 2, "a": 1}, "  ")
	if err != nil {
		t.Fatalf("DeterministicEncodeIndented() error = %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": 2\n}\n"
	if string(got) != want {
		t.Errorf("DeterministicEncodeIndented() = %q, want %q", got, want)
	}
}
