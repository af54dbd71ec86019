package glazing

import (
	"math"
	"math/rand"
	"testing"

	"ifcaudit/internal/geometry"
	"ifcaudit/internal/model"
	"ifcaudit/internal/testutil"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func rect(x, y float64, layers ...string) *model.GeometryItem {
	return &model.GeometryItem{
		TypeName: "IFCEXTRUDEDAREASOLID",
		Layers:   layers,
		Profile:  &geometry.Profile{Kind: geometry.ProfileRectangle, Dims: []float64{x, y}},
	}
}

func window(reps ...*model.Representation) *model.Element {
	return &model.Element{ID: 1, TypeName: "IfcWindow", Name: "W", Representations: reps}
}

func TestGlassArea(t *testing.T) {
	square := []geometry.Vec3{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	small := []geometry.Vec3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	cyclic := &model.Representation{Kind: "MappedRepresentation"}
	cyclic.Items = []*model.GeometryItem{{TypeName: "IFCMAPPEDITEM", Mapped: cyclic}}

	tests := []struct {
		name string
		e    *model.Element
		want float64
	}{
		{"nil element", nil, 0},
		{"no representation", window(), 0},
		{"swept profile", window(&model.Representation{Kind: "SweptSolid", Items: []*model.GeometryItem{
			rect(3, 3, "Frame"), rect(1, 2, "A-Glass-Pane"),
		}}), 2},
		{"first match wins", window(&model.Representation{Kind: "SweptSolid", Items: []*model.GeometryItem{
			rect(1, 1, "Glass"), rect(2, 2, "Glass"),
		}}), 1},
		{"case sensitive", window(&model.Representation{Kind: "SweptSolid", Items: []*model.GeometryItem{
			rect(1, 1, "glass"),
		}}), 0},
		{"kind does not qualify", window(&model.Representation{Kind: "Curve2D", Items: []*model.GeometryItem{
			rect(1, 1, "Glass"),
		}}), 0},
		{"largest face", window(&model.Representation{Kind: "SurfaceModel", Items: []*model.GeometryItem{
			{Layers: []string{"Glass"}, Faces: [][]geometry.Vec3{small, square}},
		}}), 4},
		{"glazing item without area", window(&model.Representation{Kind: "Brep", Items: []*model.GeometryItem{
			{Layers: []string{"Glass"}},
			rect(1, 1, "Glass"),
		}}), 0},
		{"second representation", window(
			&model.Representation{Kind: "Curve2D", Items: []*model.GeometryItem{rect(5, 5, "Glass")}},
			&model.Representation{Kind: "Brep", Items: []*model.GeometryItem{{Layers: []string{"Glass"}, Faces: [][]geometry.Vec3{square}}}},
		), 4},
		{"mapped target qualifies on its own kind", window(&model.Representation{Kind: "MappedRepresentation", Items: []*model.GeometryItem{
			{Mapped: &model.Representation{Kind: "SweptSolid", Items: []*model.GeometryItem{rect(0.5, 2, "Glass")}}},
		}}), 1},
		{"cyclic mapping terminates", window(cyclic), 0},
	}
	d := NewDeriver(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.GlassArea(tt.e)
			if !approx(got, tt.want) {
				t.Errorf("GlassArea() = %v, want %v", got, tt.want)
			}
			if got < 0 {
				t.Errorf("GlassArea() = %v, want non-negative", got)
			}
		})
	}
}

func TestOrientationAndAzimuth(t *testing.T) {
	tests := []struct {
		name        string
		dir         *geometry.Vec3
		orientation string
		azimuth     float64
	}{
		{"east", &geometry.Vec3{X: 1}, East, 0},
		{"south", &geometry.Vec3{Y: -1}, South, 270},
		{"diagonal reports east", &geometry.Vec3{X: 1, Y: 1}, East, 45},
		{"west", &geometry.Vec3{X: -1}, West, 180},
		{"north", &geometry.Vec3{Y: 1}, North, 90},
		{"south west reports west", &geometry.Vec3{X: -1, Y: -1}, West, 225},
		{"zero vector", &geometry.Vec3{Z: 1}, South, 0},
	}
	d := NewDeriver(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &model.Element{Placement: &model.Placement{RefDirection: tt.dir}}
			orient, azimuth := d.OrientationAndAzimuth(e)
			if orient != tt.orientation {
				t.Errorf("orientation = %q, want %q", orient, tt.orientation)
			}
			if azimuth == nil {
				t.Fatal("azimuth = nil, want a value")
			}
			if !approx(*azimuth, tt.azimuth) {
				t.Errorf("azimuth = %v, want %v", *azimuth, tt.azimuth)
			}
		})
	}

	for _, e := range []*model.Element{nil, {}, {Placement: &model.Placement{}}} {
		orient, azimuth := d.OrientationAndAzimuth(e)
		if orient != Unknown || azimuth != nil {
			t.Errorf("OrientationAndAzimuth(no direction) = %q, %v; want Unknown, nil", orient, azimuth)
		}
	}
}

func TestAzimuthRange(t *testing.T) {
	d := NewDeriver(nil)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		dir := geometry.Vec3{X: r.Float64()*2 - 1, Y: r.Float64()*2 - 1}
		if i%10 == 0 {
			dir.Y = -1e-18
			dir.X = 1
		}
		_, azimuth := d.OrientationAndAzimuth(&model.Element{Placement: &model.Placement{RefDirection: &dir}})
		if azimuth == nil || *azimuth < 0 || *azimuth >= 360 {
			t.Fatalf("azimuth for %+v = %v, want in [0, 360)", dir, azimuth)
		}
	}
}

func TestExtractAll_House(t *testing.T) {
	m, err := model.Open(testutil.FixturePath(t, "house.ifc"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	records, total := NewDeriver(nil).ExtractAll(m)
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	want := []struct {
		id          int
		area        float64
		orientation string
		azimuth     float64
		hasAzimuth  bool
	}{
		{60, 1.8, East, 0, true},
		{80, 0.54, South, 270, true},
		{95, 0, Unknown, 0, false},
	}
	for i, w := range want {
		rec := records[i]
		if rec.ID != w.id {
			t.Errorf("records[%d].ID = %d, want %d", i, rec.ID, w.id)
		}
		if !approx(rec.Area, w.area) {
			t.Errorf("records[%d].Area = %v, want %v", i, rec.Area, w.area)
		}
		if rec.Orientation != w.orientation {
			t.Errorf("records[%d].Orientation = %q, want %q", i, rec.Orientation, w.orientation)
		}
		if (rec.Azimuth != nil) != w.hasAzimuth {
			t.Errorf("records[%d].Azimuth = %v, want defined=%v", i, rec.Azimuth, w.hasAzimuth)
		} else if rec.Azimuth != nil && !approx(*rec.Azimuth, w.azimuth) {
			t.Errorf("records[%d].Azimuth = %v, want %v", i, *rec.Azimuth, w.azimuth)
		}
	}
	if records[2].Name != model.UnnamedLabel {
		t.Errorf("records[2].Name = %q, want %q", records[2].Name, model.UnnamedLabel)
	}

	sum := 0.0
	for _, rec := range records {
		sum += rec.Area
	}
	if sum != total {
		t.Errorf("total = %v, want sum of areas %v", total, sum)
	}
}

func TestExtractAll_Options(t *testing.T) {
	m, err := model.Open(testutil.FixturePath(t, "house.ifc"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// Accept every item: window 401's frame is found before its pane.
	everything := NewDeriver(nil, WithClassifier(ClassifierFunc(func(*model.GeometryItem) bool { return true })))
	records, _ := everything.ExtractAll(m)
	if !approx(records[0].Area, 1.3*1.6) {
		t.Errorf("records[0].Area = %v, want frame area %v", records[0].Area, 1.3*1.6)
	}

	brepOnly := NewDeriver(nil, WithRepresentationKinds("Brep"))
	records, total := brepOnly.ExtractAll(m)
	if records[0].Area != 0 || !approx(records[1].Area, 0.54) || !approx(total, 0.54) {
		t.Errorf("Brep-only areas = %v, %v (total %v)", records[0].Area, records[1].Area, total)
	}
}

type noWindows struct{}

func (noWindows) AllOfType(string) []*model.Element { return nil }

func TestExtractAll_Empty(t *testing.T) {
	records, total := NewDeriver(nil).ExtractAll(noWindows{})
	if len(records) != 0 || total != 0 {
		t.Errorf("ExtractAll(empty) = %v, %v; want empty, 0", records, total)
	}
}
