package flatten

import (
	"sort"
)

// RollupEntry counts the rows sharing a container and type label.
type RollupEntry struct {
	Container string `json:"container" yaml:"container"`
	TypeLabel string `json:"typeLabel" yaml:"typeLabel"`
	Count     int    `json:"count" yaml:"count"`
}

// TypeLabel is the type-object name of a row when it has one, else its
// typeName.
func TypeLabel(r Row) string {
	if name, ok := r.Get(ColumnTypeObject).AsText(); ok && name != "" {
		return name
	}
	name, _ := r.Get(ColumnTypeName).AsText()
	return name
}

// RollupByContainerAndType groups rows by (container name, type label). Only
// pairs with members are returned, sorted by container then label. Rows
// without a container are grouped under "".
func RollupByContainerAndType(rows []Row) []RollupEntry {
	type key struct{ container, label string }
	counts := make(map[key]int)
	for _, r := range rows {
		container, _ := r.Get(ColumnContainer).AsText()
		counts[key{container, TypeLabel(r)}]++
	}

	out := make([]RollupEntry, 0, len(counts))
	for k, n := range counts {
		out = append(out, RollupEntry{Container: k.container, TypeLabel: k.label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Container != out[j].Container {
			return out[i].Container < out[j].Container
		}
		return out[i].TypeLabel < out[j].TypeLabel
	})
	return out
}
