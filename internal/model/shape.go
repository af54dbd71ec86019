package model

import (
	"ifcaudit/internal/geometry"
	"ifcaudit/internal/step"
)

// maxMappingDepth bounds mapped-item recursion in malformed files.
const maxMappingDepth = 8

func (m *Model) readPlacement(v step.Value) *Placement {
	local, ok := m.file.Instance(refOf(v))
	if !ok || local.Type != "IFCLOCALPLACEMENT" {
		return nil
	}
	axis, ok := m.file.Instance(refOf(local.Attr(1)))
	if !ok {
		return nil
	}
	p := &Placement{Location: m.readPoint(axis.Attr(0))}
	switch axis.Type {
	case "IFCAXIS2PLACEMENT3D":
		p.Axis = m.readDirection(axis.Attr(1))
		p.RefDirection = m.readDirection(axis.Attr(2))
	case "IFCAXIS2PLACEMENT2D":
		p.RefDirection = m.readDirection(axis.Attr(1))
	default:
		return nil
	}
	return p
}

func (m *Model) readPoint(v step.Value) *geometry.Vec3 {
	pt, ok := m.file.Instance(refOf(v))
	if !ok || pt.Type != "IFCCARTESIANPOINT" {
		return nil
	}
	c := geometry.FromCoords(pt.Attr(0).Floats())
	return &c
}

func (m *Model) readDirection(v step.Value) *geometry.Vec3 {
	dir, ok := m.file.Instance(refOf(v))
	if !ok || dir.Type != "IFCDIRECTION" {
		return nil
	}
	ratios := dir.Attr(0).Floats()
	if len(ratios) < 2 {
		return nil
	}
	d := geometry.FromCoords(ratios)
	return &d
}

// readRepresentation builds (or returns the cached) shape representation.
func (m *Model) readRepresentation(id, depth int) *Representation {
	if rep, ok := m.reps[id]; ok {
		return rep
	}
	inst, ok := m.file.Instance(id)
	if !ok || (inst.Type != "IFCSHAPEREPRESENTATION" && inst.Type != "IFCTOPOLOGYREPRESENTATION") {
		return nil
	}
	rep := &Representation{ID: id}
	rep.Identifier, _ = inst.Attr(1).AsString()
	rep.Kind, _ = inst.Attr(2).AsString()
	// Cache before descending so self-referencing maps terminate.
	m.reps[id] = rep
	for _, itemID := range inst.Attr(3).Refs() {
		if item := m.readItem(itemID, depth); item != nil {
			rep.Items = append(rep.Items, item)
		}
	}
	return rep
}

func (m *Model) readItem(id, depth int) *GeometryItem {
	inst, ok := m.file.Instance(id)
	if !ok {
		return nil
	}
	item := &GeometryItem{ID: id, TypeName: inst.Type, Layers: m.layers[id]}
	m.fillItem(item, inst, depth)
	return item
}

// fillItem extracts the area-bearing data of inst into item.
func (m *Model) fillItem(item *GeometryItem, inst *step.Instance, depth int) {
	switch inst.Type {
	case "IFCEXTRUDEDAREASOLID", "IFCEXTRUDEDAREASOLIDTAPERED",
		"IFCREVOLVEDAREASOLID", "IFCREVOLVEDAREASOLIDTAPERED",
		"IFCSURFACECURVESWEPTAREASOLID", "IFCFIXEDREFERENCESWEPTAREASOLID":
		item.Profile = m.readProfile(inst.Attr(0))
	case "IFCMAPPEDITEM":
		if depth >= maxMappingDepth {
			return
		}
		source, ok := m.file.Instance(refOf(inst.Attr(0)))
		if !ok || source.Type != "IFCREPRESENTATIONMAP" {
			return
		}
		item.Mapped = m.readRepresentation(refOf(source.Attr(1)), depth+1)
	case "IFCFACETEDBREP", "IFCFACETEDBREPWITHVOIDS", "IFCADVANCEDBREP", "IFCADVANCEDBREPWITHVOIDS":
		item.Faces = m.readShellFaces(inst.Attr(0))
	case "IFCSHELLBASEDSURFACEMODEL":
		for _, shell := range inst.Attr(0).Refs() {
			item.Faces = append(item.Faces, m.readShellFaces(step.Ref(shell))...)
		}
	case "IFCFACEBASEDSURFACEMODEL":
		for _, set := range inst.Attr(0).Refs() {
			item.Faces = append(item.Faces, m.readShellFaces(step.Ref(set))...)
		}
	case "IFCOPENSHELL", "IFCCLOSEDSHELL", "IFCCONNECTEDFACESET":
		item.Faces = m.readShellFaces(step.Ref(inst.ID))
	case "IFCCURVEBOUNDEDPLANE":
		if loop := m.readCurve3D(inst.Attr(1)); len(loop) >= 3 {
			item.Faces = [][]geometry.Vec3{loop}
		}
	case "IFCPOLYGONALFACESET":
		item.Faces = m.readPolygonalFaces(inst)
	case "IFCBOOLEANRESULT", "IFCBOOLEANCLIPPINGRESULT":
		if depth >= maxMappingDepth {
			return
		}
		if first, ok := m.file.Instance(refOf(inst.Attr(1))); ok {
			m.fillItem(item, first, depth+1)
		}
	}
}

// readShellFaces returns the outer loop of every face of a shell or
// connected face set.
func (m *Model) readShellFaces(v step.Value) [][]geometry.Vec3 {
	shell, ok := m.file.Instance(refOf(v))
	if !ok {
		return nil
	}
	var faces [][]geometry.Vec3
	for _, faceID := range shell.Attr(0).Refs() {
		face, ok := m.file.Instance(faceID)
		if !ok {
			continue
		}
		if loop := m.readFaceOuterLoop(face); len(loop) >= 3 {
			faces = append(faces, loop)
		}
	}
	return faces
}

func (m *Model) readFaceOuterLoop(face *step.Instance) []geometry.Vec3 {
	var fallback []geometry.Vec3
	for _, boundID := range face.Attr(0).Refs() {
		bound, ok := m.file.Instance(boundID)
		if !ok {
			continue
		}
		loop := m.readLoop(bound.Attr(0))
		if bound.Type == "IFCFACEOUTERBOUND" {
			return loop
		}
		if fallback == nil {
			fallback = loop
		}
	}
	return fallback
}

func (m *Model) readLoop(v step.Value) []geometry.Vec3 {
	loop, ok := m.file.Instance(refOf(v))
	if !ok || loop.Type != "IFCPOLYLOOP" {
		return nil
	}
	return m.readPoints3D(loop.Attr(0))
}

func (m *Model) readPoints3D(v step.Value) []geometry.Vec3 {
	ids := v.Refs()
	pts := make([]geometry.Vec3, 0, len(ids))
	for _, id := range ids {
		if p := m.readPoint(step.Ref(id)); p != nil {
			pts = append(pts, *p)
		}
	}
	return pts
}

func (m *Model) readCurve3D(v step.Value) []geometry.Vec3 {
	curve, ok := m.file.Instance(refOf(v))
	if !ok {
		return nil
	}
	switch curve.Type {
	case "IFCPOLYLINE":
		return m.readPoints3D(curve.Attr(0))
	case "IFCINDEXEDPOLYCURVE":
		list, ok := m.file.Instance(refOf(curve.Attr(0)))
		if !ok {
			return nil
		}
		var pts []geometry.Vec3
		for _, item := range list.Attr(0).List {
			pts = append(pts, geometry.FromCoords(item.Floats()))
		}
		return pts
	}
	return nil
}

func (m *Model) readPolygonalFaces(set *step.Instance) [][]geometry.Vec3 {
	list, ok := m.file.Instance(refOf(set.Attr(0)))
	if !ok {
		return nil
	}
	var coords []geometry.Vec3
	for _, item := range list.Attr(0).List {
		coords = append(coords, geometry.FromCoords(item.Floats()))
	}
	var faces [][]geometry.Vec3
	for _, faceID := range set.Attr(2).Refs() {
		face, ok := m.file.Instance(faceID)
		if !ok {
			continue
		}
		var loop []geometry.Vec3
		for _, idx := range face.Attr(0).Floats() {
			i := int(idx) - 1 // indices are 1-based
			if i >= 0 && i < len(coords) {
				loop = append(loop, coords[i])
			}
		}
		if len(loop) >= 3 {
			faces = append(faces, loop)
		}
	}
	return faces
}

func (m *Model) readProfile(v step.Value) *geometry.Profile {
	def, ok := m.file.Instance(refOf(v))
	if !ok {
		return nil
	}
	dims := func(idx ...int) []float64 {
		out := make([]float64, 0, len(idx))
		for _, i := range idx {
			f, ok := def.Attr(i).AsFloat()
			if !ok {
				break
			}
			out = append(out, f)
		}
		return out
	}
	switch def.Type {
	case "IFCRECTANGLEPROFILEDEF":
		return &geometry.Profile{Kind: geometry.ProfileRectangle, Dims: dims(3, 4)}
	case "IFCROUNDEDRECTANGLEPROFILEDEF":
		return &geometry.Profile{Kind: geometry.ProfileRoundedRectangle, Dims: dims(3, 4, 5)}
	case "IFCRECTANGLEHOLLOWPROFILEDEF":
		return &geometry.Profile{Kind: geometry.ProfileRectangleHollow, Dims: dims(3, 4, 5)}
	case "IFCCIRCLEPROFILEDEF":
		return &geometry.Profile{Kind: geometry.ProfileCircle, Dims: dims(3)}
	case "IFCCIRCLEHOLLOWPROFILEDEF":
		return &geometry.Profile{Kind: geometry.ProfileCircleHollow, Dims: dims(3, 4)}
	case "IFCELLIPSEPROFILEDEF":
		return &geometry.Profile{Kind: geometry.ProfileEllipse, Dims: dims(3, 4)}
	case "IFCARBITRARYCLOSEDPROFILEDEF", "IFCARBITRARYPROFILEDEFWITHVOIDS":
		p := &geometry.Profile{Kind: geometry.ProfileArbitrary, Outer: to2D(m.readCurve3D(def.Attr(2)))}
		if def.Type == "IFCARBITRARYPROFILEDEFWITHVOIDS" {
			for _, inner := range def.Attr(3).Refs() {
				p.Inner = append(p.Inner, to2D(m.readCurve3D(step.Ref(inner))))
			}
		}
		return p
	}
	return nil
}

func to2D(pts []geometry.Vec3) []geometry.Vec2 {
	out := make([]geometry.Vec2, len(pts))
	for i, p := range pts {
		out[i] = geometry.Vec2{X: p.X, Y: p.Y}
	}
	return out
}
