// Package census counts elements per entity type and compares the counts of
// two models.
package census

import (
	"log/slog"
	"sort"

	"ifcaudit/internal/model"
	"ifcaudit/internal/slogutil"
)

// ComponentCount maps an entity type name to the number of elements of
// exactly that type.
type ComponentCount map[string]int

// Tally is one entry of a sorted count.
type Tally struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// CountByType counts elements by TypeName. Nil elements and elements without
// a type are skipped and logged; they never abort the pass.
func CountByType(elements []*model.Element, logger *slog.Logger) ComponentCount {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	counts := make(ComponentCount)
	for i, e := range elements {
		if e == nil || e.TypeName == "" {
			logger.Debug("Skipping element without a type", "index", i)
			continue
		}
		counts[e.TypeName]++
	}
	return counts
}

// CountCategory counts the elements of a model category (IfcProduct when
// empty).
func CountCategory(m *model.Model, category string, logger *slog.Logger) ComponentCount {
	return CountByType(m.AllOfCategory(category), logger)
}

// Total returns the sum of all counts.
func (c ComponentCount) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Sorted returns the counts by descending count, then by label.
func (c ComponentCount) Sorted() []Tally {
	out := c.tallies()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// SortedByLabel returns the counts ordered by label.
func (c ComponentCount) SortedByLabel() []Tally {
	out := c.tallies()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

func (c ComponentCount) tallies() []Tally {
	out := make([]Tally, 0, len(c))
	for label, n := range c {
		out = append(out, Tally{Label: label, Count: n})
	}
	return out
}
