// Package glazing derives per-window glass area and facing direction from
// the placement and shape representations of window elements.
//
// Glass area is first-match: the first glazing item found depth-first
// supplies the area, and further panes are not added. Orientation comes
// from the signs of the placement's reference direction with priority
// East > West > North > South, independently of the azimuth, so the two
// can disagree for diagonal directions: (1,1) has azimuth 45 and
// orientation East.
package glazing

import (
	"log/slog"

	"ifcaudit/internal/geometry"
	"ifcaudit/internal/model"
	"ifcaudit/internal/slogutil"
)

// Orientation labels.
const (
	East    = "East"
	West    = "West"
	North   = "North"
	South   = "South"
	Unknown = "Unknown"
)

// WindowType is the entity whose subtypes ExtractAll covers.
const WindowType = "IfcWindow"

// DefaultRepresentationKinds are the representation types searched for
// glazing.
var DefaultRepresentationKinds = []string{"SweptSolid", "SurfaceModel", "Brep"}

// Record is the derived geometry of one window.
type Record struct {
	ID          int      `json:"id" yaml:"id"`
	GlobalID    string   `json:"globalId" yaml:"globalId"`
	Name        string   `json:"name" yaml:"name"`
	Area        float64  `json:"area" yaml:"area"`
	Orientation string   `json:"orientation" yaml:"orientation"`
	Azimuth     *float64 `json:"azimuthDegrees" yaml:"azimuthDegrees"`
}

// Deriver computes window geometry. It holds no per-element state.
type Deriver struct {
	classifier GlazingClassifier
	kinds      map[string]bool
	logger     *slog.Logger
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithClassifier replaces the glazing predicate.
func WithClassifier(c GlazingClassifier) Option {
	return func(d *Deriver) {
		if c != nil {
			d.classifier = c
		}
	}
}

// WithRepresentationKinds replaces the qualifying representation types.
func WithRepresentationKinds(kinds ...string) Option {
	return func(d *Deriver) {
		d.kinds = kindSet(kinds)
	}
}

// NewDeriver creates a Deriver using DefaultClassifier and
// DefaultRepresentationKinds unless overridden.
func NewDeriver(logger *slog.Logger, opts ...Option) *Deriver {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	d := &Deriver{
		classifier: DefaultClassifier,
		kinds:      kindSet(DefaultRepresentationKinds),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func kindSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// GlassArea returns the area of the first glazing item in e's
// representations, or 0 when there is none.
func (d *Deriver) GlassArea(e *model.Element) float64 {
	if e == nil {
		return 0
	}
	visited := make(map[*model.Representation]bool)
	for _, rep := range e.Representations {
		if area, found := d.search(rep, visited); found {
			return area
		}
	}
	return 0
}

// search walks rep's items in order. Mapped items are followed into their
// target representation, which qualifies on its own kind.
func (d *Deriver) search(rep *model.Representation, visited map[*model.Representation]bool) (float64, bool) {
	if rep == nil || visited[rep] {
		return 0, false
	}
	visited[rep] = true

	qualifies := d.kinds[rep.Kind]
	for _, item := range rep.Items {
		if item == nil {
			continue
		}
		if item.Mapped != nil {
			if area, found := d.search(item.Mapped, visited); found {
				return area, true
			}
			continue
		}
		if qualifies && d.classifier.IsGlazing(item) {
			return itemArea(item), true
		}
	}
	return 0, false
}

// itemArea is the swept profile area, else the largest outer-boundary face,
// else 0.
func itemArea(item *model.GeometryItem) float64 {
	if item.Profile != nil {
		if area, ok := item.Profile.Area(); ok && area > 0 {
			return area
		}
	}
	largest := 0.0
	for _, face := range item.Faces {
		if a := geometry.PolygonArea3D(face); a > largest {
			largest = a
		}
	}
	return largest
}

// OrientationAndAzimuth reads e's placement reference direction. Without
// one it returns (Unknown, nil).
func (d *Deriver) OrientationAndAzimuth(e *model.Element) (string, *float64) {
	if e == nil || e.Placement == nil || e.Placement.RefDirection == nil {
		return Unknown, nil
	}
	dx, dy := e.Placement.RefDirection.X, e.Placement.RefDirection.Y
	azimuth := geometry.AzimuthDegrees(dx, dy)
	return orientation(dx, dy), &azimuth
}

func orientation(dx, dy float64) string {
	switch {
	case dx > 0:
		return East
	case dx < 0:
		return West
	case dy > 0:
		return North
	default:
		return South
	}
}

// Derive builds the Record of one window.
func (d *Deriver) Derive(e *model.Element) Record {
	orient, azimuth := d.OrientationAndAzimuth(e)
	return Record{
		ID:          e.ID,
		GlobalID:    e.GlobalID,
		Name:        e.Name,
		Area:        d.GlassArea(e),
		Orientation: orient,
		Azimuth:     azimuth,
	}
}

// WindowSource lists elements by type. *model.Model implements it.
type WindowSource interface {
	AllOfType(typeName string) []*model.Element
}

// ExtractAll derives a Record for every window and returns them with the
// sum of their areas. No windows yields an empty slice and 0.
func (d *Deriver) ExtractAll(src WindowSource) ([]Record, float64) {
	windows := src.AllOfType(WindowType)
	records := make([]Record, 0, len(windows))
	total := 0.0
	for _, w := range windows {
		rec := d.Derive(w)
		if rec.Area == 0 {
			d.logger.Debug("No glazing found", "window", w.ID, "name", w.Name)
		}
		records = append(records, rec)
		total += rec.Area
	}
	d.logger.Debug("Window geometry derived",
		"windows", len(records),
		"totalArea", total,
	)
	return records, total
}
