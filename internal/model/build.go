package model

import (
	"sort"

	"ifcaudit/internal/step"
)

// indexRelations records the objectified relationships the accessor needs.
// When an object appears in two relations of the same kind the first wins.
func (m *Model) indexRelations() {
	for _, inst := range m.file.Instances() {
		switch inst.Type {
		case "IFCRELCONTAINEDINSPATIALSTRUCTURE":
			structure, ok := inst.Attr(5).AsRef()
			if !ok {
				continue
			}
			for _, id := range inst.Attr(4).Refs() {
				setOnce(m.containedIn, id, structure)
			}
		case "IFCRELAGGREGATES":
			whole, ok := inst.Attr(4).AsRef()
			if !ok {
				continue
			}
			for _, id := range inst.Attr(5).Refs() {
				setOnce(m.aggregateParent, id, whole)
			}
		case "IFCRELFILLSELEMENT":
			opening, ok1 := inst.Attr(4).AsRef()
			filler, ok2 := inst.Attr(5).AsRef()
			if ok1 && ok2 {
				setOnce(m.fills, filler, opening)
			}
		case "IFCRELVOIDSELEMENT":
			host, ok1 := inst.Attr(4).AsRef()
			opening, ok2 := inst.Attr(5).AsRef()
			if ok1 && ok2 {
				setOnce(m.voids, opening, host)
			}
		case "IFCRELDEFINESBYTYPE":
			typeObj, ok := inst.Attr(5).AsRef()
			if !ok {
				continue
			}
			for _, id := range inst.Attr(4).Refs() {
				if setOnce(m.typeOf, id, typeObj) {
					m.instancesOf[typeObj] = append(m.instancesOf[typeObj], id)
				}
			}
		case "IFCRELDEFINESBYPROPERTIES":
			// IFC4 allows a set of definitions; IFC2X3 holds exactly one.
			defs := inst.Attr(5).Refs()
			for _, id := range inst.Attr(4).Refs() {
				m.propDefs[id] = append(m.propDefs[id], defs...)
			}
		case "IFCPRESENTATIONLAYERASSIGNMENT", "IFCPRESENTATIONLAYERWITHSTYLE":
			name, _ := inst.Attr(0).AsString()
			for _, id := range inst.Attr(2).Refs() {
				m.layers[id] = append(m.layers[id], name)
			}
		}
	}
	for _, ids := range m.instancesOf {
		sort.Ints(ids)
	}
}

func setOnce(idx map[int]int, key, value int) bool {
	if _, ok := idx[key]; ok {
		return false
	}
	idx[key] = value
	return true
}

// buildElements creates an Element for every instance of an
// IfcObjectDefinition subtype, then resolves containers.
func (m *Model) buildElements() {
	for _, inst := range m.file.Instances() {
		if inst.IsComplex() {
			continue
		}
		typeName, known := m.schema.Canonical(inst.Type)
		if !known || !m.schema.IsSubtypeOf(typeName, "IfcObjectDefinition") {
			continue
		}
		m.elements[inst.ID] = m.newElement(inst, typeName)
		m.order = append(m.order, inst.ID)
	}
	sort.Ints(m.order)

	// Type psets first so occurrences can inherit them.
	for _, id := range m.order {
		e := m.elements[id]
		if m.schema.IsSubtypeOf(e.TypeName, "IfcTypeObject") {
			inst, _ := m.file.Instance(id)
			for _, def := range inst.Attr(5).Refs() {
				m.readPropertyDefinition(e, def)
			}
			for _, def := range m.propDefs[id] {
				m.readPropertyDefinition(e, def)
			}
		}
	}
	for _, id := range m.order {
		e := m.elements[id]
		if m.schema.IsSubtypeOf(e.TypeName, "IfcTypeObject") {
			continue
		}
		if t, ok := m.elements[e.TypeObjectID]; ok {
			inheritSets(e.PropertySets, t.PropertySets)
			inheritSets(e.QuantitySets, t.QuantitySets)
		}
		for _, def := range m.propDefs[id] {
			m.readPropertyDefinition(e, def)
		}
	}

	for _, id := range m.order {
		e := m.elements[id]
		e.ContainerID = m.resolveContainer(id)
	}
}

func inheritSets(dst, src map[string]map[string]Value) {
	for group, props := range src {
		g, ok := dst[group]
		if !ok {
			g = make(map[string]Value, len(props))
			dst[group] = g
		}
		for k, v := range props {
			g[k] = v
		}
	}
}

func (m *Model) newElement(inst *step.Instance, typeName string) *Element {
	e := &Element{
		ID:           inst.ID,
		TypeName:     typeName,
		TypeObjectID: m.typeOf[inst.ID],
		PropertySets: make(map[string]map[string]Value),
		QuantitySets: make(map[string]map[string]Value),
	}
	e.GlobalID, _ = inst.Attr(0).AsString()
	e.Name, _ = inst.Attr(2).AsString()
	if e.Name == "" {
		e.Name = UnnamedLabel
	}
	e.Description, _ = inst.Attr(3).AsString()

	isObject := m.schema.IsSubtypeOf(typeName, "IfcObject") || m.schema.IsSubtypeOf(typeName, "IfcContext")
	isType := m.schema.IsSubtypeOf(typeName, "IfcTypeProduct")
	if isObject {
		e.ObjectType, _ = inst.Attr(4).AsString()
	}
	if isType || m.schema.IsSubtypeOf(typeName, "IfcElement") {
		e.Tag, _ = inst.Attr(7).AsString()
	}
	if idx, ok := m.schema.PredefinedTypeIndex(typeName); ok {
		if pt, ok := inst.Attr(idx).AsEnum(); ok {
			e.PredefinedType = pt
			if pt == "USERDEFINED" {
				override := e.ObjectType
				if isType {
					// IfcElementType.ElementType
					override, _ = inst.Attr(8).AsString()
				}
				if override != "" {
					e.PredefinedType = override
				}
			}
		}
	}

	if m.schema.IsSubtypeOf(typeName, "IfcProduct") {
		e.Placement = m.readPlacement(inst.Attr(5))
		if shape, ok := m.file.Instance(refOf(inst.Attr(6))); ok && shape.Type == "IFCPRODUCTDEFINITIONSHAPE" {
			for _, id := range shape.Attr(2).Refs() {
				if rep := m.readRepresentation(id, 0); rep != nil {
					e.Representations = append(e.Representations, rep)
				}
			}
		}
	}
	return e
}

func refOf(v step.Value) int {
	id, _ := v.AsRef()
	return id
}

// readPropertyDefinition merges one property set or element quantity into
// e. Later definitions override earlier keys in the same group.
func (m *Model) readPropertyDefinition(e *Element, id int) {
	def, ok := m.file.Instance(id)
	if !ok {
		return
	}
	switch def.Type {
	case "IFCPROPERTYSET":
		group, _ := def.Attr(2).AsString()
		props := ensureGroup(e.PropertySets, group)
		for _, pid := range def.Attr(4).Refs() {
			prop, ok := m.file.Instance(pid)
			if !ok {
				continue
			}
			name, value, ok := readProperty(prop)
			if ok {
				props[name] = value
			}
		}
	case "IFCELEMENTQUANTITY":
		group, _ := def.Attr(2).AsString()
		quantities := ensureGroup(e.QuantitySets, group)
		for _, qid := range def.Attr(5).Refs() {
			q, ok := m.file.Instance(qid)
			if !ok {
				continue
			}
			name, _ := q.Attr(0).AsString()
			if name == "" {
				continue
			}
			switch q.Type {
			case "IFCQUANTITYLENGTH", "IFCQUANTITYAREA", "IFCQUANTITYVOLUME",
				"IFCQUANTITYCOUNT", "IFCQUANTITYWEIGHT", "IFCQUANTITYTIME", "IFCQUANTITYNUMBER":
				if f, ok := q.Attr(3).AsFloat(); ok {
					quantities[name] = Number(f)
				} else {
					quantities[name] = Absent()
				}
			}
		}
	default:
		m.logger.Debug("Skipping property definition",
			"id", id,
			"type", def.Type,
			"element", e.ID,
		)
	}
}

func ensureGroup(sets map[string]map[string]Value, group string) map[string]Value {
	g, ok := sets[group]
	if !ok {
		g = make(map[string]Value)
		sets[group] = g
	}
	return g
}

func readProperty(prop *step.Instance) (string, Value, bool) {
	name, _ := prop.Attr(0).AsString()
	if name == "" {
		return "", Absent(), false
	}
	switch prop.Type {
	case "IFCPROPERTYSINGLEVALUE", "IFCPROPERTYENUMERATEDVALUE", "IFCPROPERTYLISTVALUE":
		return name, FromStep(prop.Attr(2)), true
	case "IFCPROPERTYBOUNDEDVALUE":
		// UpperBoundValue, LowerBoundValue; report the single bound when only one is set.
		upper, lower := FromStep(prop.Attr(2)), FromStep(prop.Attr(3))
		switch {
		case lower.IsAbsent():
			return name, upper, true
		case upper.IsAbsent():
			return name, lower, true
		}
		return name, Text(lower.String() + ".." + upper.String()), true
	}
	return "", Absent(), false
}

// resolveContainer finds the spatial element holding id: direct
// containment, then the aggregate parent, then the fill/void chain.
func (m *Model) resolveContainer(id int) int {
	seen := make(map[int]bool)
	cur := id
	for !seen[cur] {
		seen[cur] = true
		if s, ok := m.containedIn[cur]; ok {
			return s
		}
		if parent, ok := m.aggregateParent[cur]; ok {
			if m.isSpatial(parent) {
				return parent
			}
			cur = parent
			continue
		}
		if opening, ok := m.fills[cur]; ok {
			if host, ok := m.voids[opening]; ok {
				cur = host
			} else {
				cur = opening
			}
			continue
		}
		if host, ok := m.voids[cur]; ok {
			cur = host
			continue
		}
		return 0
	}
	m.logger.Debug("Container chain has a cycle", "element", id)
	return 0
}

func (m *Model) isSpatial(id int) bool {
	e, ok := m.elements[id]
	if !ok {
		return false
	}
	return m.schema.IsSubtypeOf(e.TypeName, "IfcSpatialElement") ||
		m.schema.IsSubtypeOf(e.TypeName, "IfcSpatialStructureElement")
}
