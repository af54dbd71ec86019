// Package geometry provides the small amount of planar math needed to
// measure glazing: vectors, polygon areas and closed-form profile areas.
package geometry

import "math"

// Vec2 is a point or direction in the plane.
type Vec2 struct{ X, Y float64 }

// Vec3 is a point or direction in space.
type Vec3 struct{ X, Y, Z float64 }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm.
func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// FromCoords builds a Vec3 from 2 or 3 coordinates; missing ones are zero.
func FromCoords(c []float64) Vec3 {
	var v Vec3
	if len(c) > 0 {
		v.X = c[0]
	}
	if len(c) > 1 {
		v.Y = c[1]
	}
	if len(c) > 2 {
		v.Z = c[2]
	}
	return v
}

// PolygonArea2D returns the unsigned shoelace area of a closed polygon.
// A repeated closing vertex is harmless.
func PolygonArea2D(pts []Vec2) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// PolygonArea3D returns the area of a planar polygon in space using
// Newell's method, which does not depend on the polygon's orientation.
func PolygonArea3D(pts []Vec3) float64 {
	if len(pts) < 3 {
		return 0
	}
	var n Vec3
	for i := range pts {
		cur, next := pts[i], pts[(i+1)%len(pts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Length() / 2
}

// AzimuthDegrees returns atan2(dy, dx) in degrees, normalized into [0, 360).
func AzimuthDegrees(dx, dy float64) float64 {
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// Adding 360 to a tiny negative value rounds to exactly 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}
