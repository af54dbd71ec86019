package model

import (
	"io"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/step"
)

// NamedValue is one property to write with AttachPropertySet. Long text
// values are written as IfcText, other text as IfcLabel.
type NamedValue struct {
	Name  string
	Value Value
	Long  bool
}

// AttachPropertySet writes props into the property set group on the element.
// An existing set of that name is reused: matching single-value properties
// are updated in place and missing ones appended. Otherwise a new set and
// its defining relationship are created with fresh GlobalIds.
func (m *Model) AttachPropertySet(elementID int, group string, props []NamedValue) error {
	e, ok := m.elements[elementID]
	if !ok {
		return errors.Newf(errors.InvalidInput, "no element #%d", elementID)
	}
	if group == "" {
		return errors.Newf(errors.InvalidInput, "property set name is empty")
	}
	inst, _ := m.file.Instance(elementID)
	ownerHistory := inst.Attr(1)
	if _, isRef := ownerHistory.AsRef(); !isRef {
		ownerHistory = step.Null()
	}

	pset := m.findPropertySet(elementID, group)
	if pset == nil {
		ids := make([]int, 0, len(props))
		for _, p := range props {
			ids = append(ids, m.addProperty(p).ID)
		}
		pset = m.file.Add("IFCPROPERTYSET",
			step.String(NewGlobalID()), ownerHistory, step.String(group), step.Null(), step.RefList(ids...))
		m.file.Add("IFCRELDEFINESBYPROPERTIES",
			step.String(NewGlobalID()), ownerHistory, step.Null(), step.Null(),
			step.RefList(elementID), step.Ref(pset.ID))
		m.propDefs[elementID] = append(m.propDefs[elementID], pset.ID)
	} else {
		existing := make(map[string]*step.Instance)
		for _, pid := range pset.Attr(4).Refs() {
			if prop, ok := m.file.Instance(pid); ok && prop.Type == "IFCPROPERTYSINGLEVALUE" {
				name, _ := prop.Attr(0).AsString()
				existing[name] = prop
			}
		}
		refs := pset.Attr(4).Refs()
		for _, p := range props {
			if prop, ok := existing[p.Name]; ok {
				for len(prop.Attrs) < 4 {
					prop.Attrs = append(prop.Attrs, step.Null())
				}
				prop.Attrs[2] = nominalValue(p)
				continue
			}
			refs = append(refs, m.addProperty(p).ID)
		}
		for len(pset.Attrs) < 5 {
			pset.Attrs = append(pset.Attrs, step.Null())
		}
		pset.Attrs[4] = step.RefList(refs...)
	}

	values := ensureGroup(e.PropertySets, group)
	for _, p := range props {
		values[p.Name] = p.Value
	}
	m.logger.Debug("Property set attached",
		"element", elementID,
		"group", group,
		"pset", pset.ID,
		"properties", len(props),
	)
	return nil
}

func (m *Model) findPropertySet(elementID int, group string) *step.Instance {
	for _, id := range m.propDefs[elementID] {
		def, ok := m.file.Instance(id)
		if !ok || def.Type != "IFCPROPERTYSET" {
			continue
		}
		if name, _ := def.Attr(2).AsString(); name == group {
			return def
		}
	}
	return nil
}

func (m *Model) addProperty(p NamedValue) *step.Instance {
	return m.file.Add("IFCPROPERTYSINGLEVALUE",
		step.String(p.Name), step.Null(), nominalValue(p), step.Null())
}

func nominalValue(p NamedValue) step.Value {
	switch p.Value.Kind() {
	case ValueText:
		s, _ := p.Value.AsText()
		if p.Long {
			return step.Typed("IFCTEXT", step.String(s))
		}
		return step.Typed("IFCLABEL", step.String(s))
	case ValueNumber:
		f, _ := p.Value.AsNumber()
		return step.Typed("IFCREAL", step.Real(f))
	case ValueBool:
		b, _ := p.Value.AsBool()
		return step.Typed("IFCBOOLEAN", step.Bool(b))
	}
	return step.Null()
}

// WriteTo serializes the model, including attached property sets, in
// exchange-file syntax.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	return m.file.WriteTo(w)
}
