package glazing

import (
	"strings"

	"ifcaudit/internal/model"
)

// GlazingClassifier decides whether a representation item is glazing.
type GlazingClassifier interface {
	IsGlazing(item *model.GeometryItem) bool
}

// ClassifierFunc adapts a function to GlazingClassifier.
type ClassifierFunc func(item *model.GeometryItem) bool

// IsGlazing calls f(item).
func (f ClassifierFunc) IsGlazing(item *model.GeometryItem) bool {
	return f(item)
}

// LayerNameContains matches items assigned to a presentation layer whose
// name contains the string. Matching is case-sensitive.
type LayerNameContains string

// IsGlazing reports whether any of the item's own layers matches.
func (s LayerNameContains) IsGlazing(item *model.GeometryItem) bool {
	if item == nil {
		return false
	}
	for _, layer := range item.Layers {
		if strings.Contains(layer, string(s)) {
			return true
		}
	}
	return false
}

// DefaultClassifier matches layers named like "Glass".
var DefaultClassifier GlazingClassifier = LayerNameContains("Glass")
