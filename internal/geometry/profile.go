package geometry

import "math"

// ProfileKind enumerates the swept-area profile definitions with a
// computable area.
type ProfileKind int

const (
	ProfileUnknown ProfileKind = iota
	ProfileRectangle
	ProfileRoundedRectangle
	ProfileRectangleHollow
	ProfileCircle
	ProfileCircleHollow
	ProfileEllipse
	ProfileArbitrary
)

// Profile is a swept-area cross-section. Dims holds the defining
// dimensions in the order the entity declares them: XDim, YDim and then
// the corner radius or wall thickness for rectangles; radius and wall
// thickness for circles; both semi-axes for ellipses.
type Profile struct {
	Kind  ProfileKind
	Dims  []float64
	Outer []Vec2
	Inner [][]Vec2
}

func (p Profile) dim(i int) float64 {
	if i < len(p.Dims) {
		return p.Dims[i]
	}
	return 0
}

// Area returns the profile's cross-section area. ok is false when the
// profile kind is unknown or its defining data is missing.
func (p Profile) Area() (area float64, ok bool) {
	switch p.Kind {
	case ProfileRectangle:
		if len(p.Dims) < 2 {
			return 0, false
		}
		return math.Abs(p.dim(0) * p.dim(1)), true
	case ProfileRoundedRectangle:
		if len(p.Dims) < 2 {
			return 0, false
		}
		r := p.dim(2)
		return math.Abs(p.dim(0)*p.dim(1)) - (4-math.Pi)*r*r, true
	case ProfileRectangleHollow:
		if len(p.Dims) < 3 {
			return 0, false
		}
		x, y, t := math.Abs(p.dim(0)), math.Abs(p.dim(1)), math.Abs(p.dim(2))
		inner := (x - 2*t) * (y - 2*t)
		if inner < 0 {
			inner = 0
		}
		return x*y - inner, true
	case ProfileCircle:
		if len(p.Dims) < 1 {
			return 0, false
		}
		r := p.dim(0)
		return math.Pi * r * r, true
	case ProfileCircleHollow:
		if len(p.Dims) < 2 {
			return 0, false
		}
		r, t := math.Abs(p.dim(0)), math.Abs(p.dim(1))
		ri := r - t
		if ri < 0 {
			ri = 0
		}
		return math.Pi * (r*r - ri*ri), true
	case ProfileEllipse:
		if len(p.Dims) < 2 {
			return 0, false
		}
		return math.Abs(math.Pi * p.dim(0) * p.dim(1)), true
	case ProfileArbitrary:
		if len(p.Outer) < 3 {
			return 0, false
		}
		area := PolygonArea2D(p.Outer)
		for _, hole := range p.Inner {
			area -= PolygonArea2D(hole)
		}
		if area < 0 {
			area = 0
		}
		return area, true
	}
	return 0, false
}
