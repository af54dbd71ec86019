package census

import (
	"strings"

	"ifcaudit/internal/model"
)

// NamePrefix returns the part of an element name before the first ':'.
// Authoring tools write family and type there ("Basic Wall:Exterior:101").
func NamePrefix(name string) string {
	if name == "" {
		return model.UnnamedLabel
	}
	prefix, _, _ := strings.Cut(name, ":")
	return prefix
}

// BreakdownByName counts elements by NamePrefix of their names. Nil
// elements are skipped.
func BreakdownByName(elements []*model.Element) ComponentCount {
	counts := make(ComponentCount)
	for _, e := range elements {
		if e == nil {
			continue
		}
		counts[NamePrefix(e.Name)]++
	}
	return counts
}
