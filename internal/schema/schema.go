package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema is the entity hierarchy of one schema family, viewed through a
// concrete schema identifier. Every method accepts names in any case.
type Schema struct {
	id         string
	family     string
	supertypes map[string]string // canonical -> canonical supertype
	predefined map[string]int
	canonical  map[string]string // UPPER -> canonical
	children   map[string][]string
}

func (s *Schema) index() error {
	s.canonical = make(map[string]string, len(s.supertypes))
	s.children = make(map[string][]string)
	for name := range s.supertypes {
		s.canonical[strings.ToUpper(name)] = name
	}
	for name, super := range s.supertypes {
		if super == "" {
			continue
		}
		if _, ok := s.supertypes[super]; !ok {
			return fmt.Errorf("entity %s has undeclared supertype %s", name, super)
		}
		s.children[super] = append(s.children[super], name)
	}
	for name := range s.predefined {
		if _, ok := s.supertypes[name]; !ok {
			return fmt.Errorf("predefined type declared for undeclared entity %s", name)
		}
	}
	for _, kids := range s.children {
		sort.Strings(kids)
	}
	// Reject cycles so ancestor walks always terminate.
	for name := range s.supertypes {
		seen := map[string]bool{}
		for cur := name; cur != ""; cur = s.supertypes[cur] {
			if seen[cur] {
				return fmt.Errorf("entity %s has a cyclic supertype chain", name)
			}
			seen[cur] = true
		}
	}
	return nil
}

// ID returns the schema identifier this view was created for.
func (s *Schema) ID() string { return s.id }

// Family returns the family the identifier belongs to (IFC2X3, IFC4, IFC4X3).
func (s *Schema) Family() string { return s.family }

// Canonical maps a STEP type name such as IFCWALLSTANDARDCASE to its
// canonical spelling. Unknown names are returned unchanged with ok=false.
func (s *Schema) Canonical(name string) (string, bool) {
	c, ok := s.canonical[strings.ToUpper(name)]
	if !ok {
		return name, false
	}
	return c, true
}

// Known reports whether the entity is in the catalog.
func (s *Schema) Known(name string) bool {
	_, ok := s.canonical[strings.ToUpper(name)]
	return ok
}

// Supertype returns the direct supertype, or "" for roots and unknown names.
func (s *Schema) Supertype(name string) string {
	c, ok := s.Canonical(name)
	if !ok {
		return ""
	}
	return s.supertypes[c]
}

// IsSubtypeOf reports whether name equals ancestor or inherits from it.
func (s *Schema) IsSubtypeOf(name, ancestor string) bool {
	c, ok := s.Canonical(name)
	if !ok {
		return false
	}
	a, ok := s.Canonical(ancestor)
	if !ok {
		return false
	}
	for cur := c; cur != ""; cur = s.supertypes[cur] {
		if cur == a {
			return true
		}
	}
	return false
}

// Subtypes returns name and all of its descendants, sorted.
func (s *Schema) Subtypes(name string) []string {
	c, ok := s.Canonical(name)
	if !ok {
		return nil
	}
	var out []string
	stack := []string{c}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		stack = append(stack, s.children[cur]...)
	}
	sort.Strings(out)
	return out
}

// PredefinedTypeIndex returns the attribute position of PredefinedType for
// the entity, inherited from the nearest ancestor that declares one.
func (s *Schema) PredefinedTypeIndex(name string) (int, bool) {
	c, ok := s.Canonical(name)
	if !ok {
		return 0, false
	}
	for cur := c; cur != ""; cur = s.supertypes[cur] {
		if idx, ok := s.predefined[cur]; ok {
			return idx, true
		}
	}
	return 0, false
}
