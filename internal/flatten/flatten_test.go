package flatten

import (
	"math"
	"reflect"
	"testing"

	"ifcaudit/internal/model"
	"ifcaudit/internal/testutil"
)

func openHouse(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.Open(testutil.FixturePath(t, "house.ifc"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return m
}

func TestDiscoverAttributeKeys(t *testing.T) {
	elements := []*model.Element{
		{
			ID:           1,
			TypeName:     "IfcWall",
			PropertySets: map[string]map[string]model.Value{"Pset_X": {"Y": model.Text("a"), "Z": model.Bool(true)}},
			QuantitySets: map[string]map[string]model.Value{"Qto_X": {"Length": model.Number(2)}},
		},
		nil,
		{
			ID:           2,
			TypeName:     "IfcWall",
			PropertySets: map[string]map[string]model.Value{"Pset_X": {"Y": model.Text("b")}, "Other": {"K": model.Absent()}},
		},
		{ID: 3, TypeName: "IfcWall"},
	}

	got := DiscoverAttributeKeys(elements).Sorted()
	want := []string{"Other.K", "Pset_X.Y", "Pset_X.Z", "Qto_X.Length"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverAttributeKeys() = %v, want %v", got, want)
	}
	if n := len(DiscoverAttributeKeys(nil)); n != 0 {
		t.Errorf("DiscoverAttributeKeys(nil) has %d keys", n)
	}
}

func TestResolve(t *testing.T) {
	e := &model.Element{
		ID:       9,
		TypeName: "IfcDoor",
		Name:     "Door:Single",
		PropertySets: map[string]map[string]model.Value{
			"Pset_X":    {"Y": model.Text("v")},
			"Dimension": {"Width": model.Text("from pset")},
		},
		QuantitySets: map[string]map[string]model.Value{
			"Dimension": {"Width": model.Number(0.9), "Height": model.Number(2.1)},
		},
	}
	f := NewFlattener(nil, nil)

	tests := []struct {
		key  string
		want model.Value
	}{
		{"Pset_X.Y", model.Text("v")},
		{"Pset_X.Missing", model.Absent()},
		{"NoSuchGroup.Y", model.Absent()},
		{"Dimension.Width", model.Text("from pset")},
		{"Dimension.Height", model.Number(2.1)},
		{"id", model.Number(9)},
		{"name", model.Text("Door:Single")},
		{"globalId", model.Absent()},
		{"container", model.Absent()},
		{"noSuchField", model.Absent()},
		{"", model.Absent()},
		{".", model.Absent()},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := f.Resolve(e, tt.key); !got.Equal(tt.want) {
				t.Errorf("Resolve(%q) = %v (%s), want %v", tt.key, got, got.Kind(), tt.want)
			}
		})
	}
}

func TestResolve_SplitsOnFirstDot(t *testing.T) {
	e := &model.Element{
		ID:           1,
		TypeName:     "IfcWall",
		PropertySets: map[string]map[string]model.Value{"Pset": {"a.b": model.Number(1)}},
	}
	if got := NewFlattener(nil, nil).Resolve(e, "Pset.a.b"); !got.Equal(model.Number(1)) {
		t.Errorf("Resolve(Pset.a.b) = %v, want 1", got)
	}
}

func TestTable_House(t *testing.T) {
	m := openHouse(t)
	f := NewFlattener(m, nil)

	table := f.Table(m.AllOfType("IfcWall"))

	wantColumns := append(append([]string{}, IdentityColumns...),
		"Pset_WallCommon.FireRating",
		"Pset_WallCommon.IsExternal",
		"Qto_WallBaseQuantities.Length",
		"Qto_WallBaseQuantities.NetSideArea",
	)
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Fatalf("Columns = %v, want %v", table.Columns, wantColumns)
	}
	if len(table.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(table.Rows))
	}

	first := table.Rows[0]
	checks := map[string]model.Value{
		"id":                            model.Number(40),
		"typeName":                      model.Text("IfcWall"),
		"predefinedType":                model.Text("STANDARD"),
		"container":                     model.Text("Level 1"),
		"typeObject":                    model.Text("Basic Wall:Exterior 300"),
		"Pset_WallCommon.FireRating":    model.Text("EI90"),
		"Pset_WallCommon.IsExternal":    model.Bool(true),
		"Qto_WallBaseQuantities.Length": model.Number(5),
	}
	for col, want := range checks {
		if got := first.Get(col); !got.Equal(want) {
			t.Errorf("row #40 %s = %v, want %v", col, got, want)
		}
	}

	// The interior wall has no type and no sets: every attribute is absent.
	interior := table.Rows[2]
	for _, col := range table.Columns[len(IdentityColumns):] {
		if got := interior.Get(col); !got.IsAbsent() {
			t.Errorf("row #42 %s = %v, want absent", col, got)
		}
	}
	if got := interior.Get("typeObject"); !got.IsAbsent() {
		t.Errorf("row #42 typeObject = %v, want absent", got)
	}
	// Every row carries every column.
	for i, r := range table.Rows {
		if len(r) != len(table.Columns) {
			t.Errorf("row %d has %d cells, want %d", i, len(r), len(table.Columns))
		}
	}
}

func TestRollupByContainerAndType(t *testing.T) {
	m := openHouse(t)
	f := NewFlattener(m, nil)

	rows := f.BuildRows(m.AllOfCategory(""), IdentityColumns)
	got := RollupByContainerAndType(rows)

	want := []RollupEntry{
		{Container: "", TypeLabel: "IfcSite", Count: 1},
		{Container: "Level 1", TypeLabel: "Basic Wall:Exterior 300", Count: 1},
		{Container: "Level 1", TypeLabel: "IfcDoor", Count: 1},
		{Container: "Level 1", TypeLabel: "IfcSlab", Count: 1},
		{Container: "Level 1", TypeLabel: "IfcWallStandardCase", Count: 1},
		{Container: "Level 1", TypeLabel: "IfcWindow", Count: 1},
		{Container: "Level 2", TypeLabel: "Basic Wall:Exterior 300", Count: 1},
		{Container: "Level 2", TypeLabel: "IfcOpeningElement", Count: 1},
		{Container: "Level 2", TypeLabel: "IfcWall", Count: 1},
		{Container: "Level 2", TypeLabel: "IfcWindow", Count: 2},
		{Container: "Main Building", TypeLabel: "IfcBuildingStorey", Count: 2},
		{Container: "Site", TypeLabel: "IfcBuilding", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RollupByContainerAndType() =\n%+v\nwant\n%+v", got, want)
	}

	total := 0
	for _, e := range got {
		if e.Count == 0 {
			t.Errorf("entry %+v has zero members", e)
		}
		total += e.Count
	}
	if total != len(rows) {
		t.Errorf("rollup total = %d, want %d", total, len(rows))
	}
	if out := RollupByContainerAndType(nil); len(out) != 0 {
		t.Errorf("RollupByContainerAndType(nil) = %v, want empty", out)
	}
}

func TestDescribe(t *testing.T) {
	table := Table{
		Columns: []string{"name", "Qto.Length", "Mixed.Value"},
		Rows: []Row{
			{"name": model.Text("a"), "Qto.Length": model.Number(1), "Mixed.Value": model.Text("x")},
			{"name": model.Text("b"), "Qto.Length": model.Number(2), "Mixed.Value": model.Number(10)},
			{"name": model.Text("c"), "Qto.Length": model.Number(3)},
			{"name": model.Text("d"), "Qto.Length": model.Number(4)},
		},
	}

	got := Describe(table)
	if len(got) != 2 {
		t.Fatalf("Describe() returned %d columns, want 2: %+v", len(got), got)
	}

	length := got[0]
	want := ColumnStats{
		Column: "Qto.Length", Count: 4, Mean: 2.5, Min: 1, Q25: 1.75, Median: 2.5, Q75: 3.25, Max: 4,
	}
	if math.Abs(length.Std-math.Sqrt(5.0/3.0)) > 1e-12 {
		t.Errorf("Std = %v, want %v", length.Std, math.Sqrt(5.0/3.0))
	}
	length.Std = 0
	if length != want {
		t.Errorf("Describe()[0] = %+v, want %+v", length, want)
	}

	single := got[1]
	if single.Column != "Mixed.Value" || single.Count != 1 || single.Std != 0 || single.Median != 10 {
		t.Errorf("Describe()[1] = %+v", single)
	}
}
