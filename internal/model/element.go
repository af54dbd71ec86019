package model

import (
	"ifcaudit/internal/geometry"
)

// UnnamedLabel replaces absent or empty element names.
const UnnamedLabel = "Unnamed"

// Element is a read-only view of one object definition in a model.
// ContainerID and TypeObjectID are weak references resolved through the
// owning Model; zero means none.
type Element struct {
	ID             int
	GlobalID       string
	TypeName       string
	Name           string
	Description    string
	ObjectType     string
	Tag            string
	PredefinedType string

	ContainerID  int
	TypeObjectID int

	PropertySets map[string]map[string]Value
	QuantitySets map[string]map[string]Value

	Placement       *Placement
	Representations []*Representation
}

// Property returns PropertySets[group][name], or Absent.
func (e *Element) Property(group, name string) Value {
	if e == nil {
		return Absent()
	}
	if v, ok := e.PropertySets[group][name]; ok {
		return v
	}
	return Absent()
}

// Quantity returns QuantitySets[group][name], or Absent.
func (e *Element) Quantity(group, name string) Value {
	if e == nil {
		return Absent()
	}
	if v, ok := e.QuantitySets[group][name]; ok {
		return v
	}
	return Absent()
}

// Placement is the element's local axis placement. Nil components were
// absent in the file.
type Placement struct {
	Location     *geometry.Vec3
	Axis         *geometry.Vec3
	RefDirection *geometry.Vec3
}

// Representation is one shape representation of a product.
type Representation struct {
	ID         int
	Identifier string // Body, Axis, FootPrint...
	Kind       string // RepresentationType: SweptSolid, Brep, SurfaceModel, MappedRepresentation...
	Items      []*GeometryItem
}

// GeometryItem is one representation item, reduced to what area
// measurement needs.
type GeometryItem struct {
	ID       int
	TypeName string
	// Layers are the names of the presentation layers the item itself is
	// assigned to.
	Layers []string
	// Profile is the swept area of extruded and revolved solids.
	Profile *geometry.Profile
	// Faces are outer boundary loops of faceted and surface geometry.
	Faces [][]geometry.Vec3
	// Mapped is the target representation of a mapped item.
	Mapped *Representation
}
