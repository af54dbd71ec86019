// Package flatten turns the nested property and quantity sets of a batch of
// elements into one table whose columns are the identity fields plus the
// union of every dotted group.property key in the batch.
//
// Resolution never fails: an element that lacks an attribute reports
// model.Absent() in that cell.
package flatten

import (
	"log/slog"
	"sort"
	"strings"

	"ifcaudit/internal/model"
	"ifcaudit/internal/slogutil"
)

// Identity column names.
const (
	ColumnID             = "id"
	ColumnGlobalID       = "globalId"
	ColumnTypeName       = "typeName"
	ColumnPredefinedType = "predefinedType"
	ColumnName           = "name"
	ColumnContainer      = "container"
	ColumnTypeObject     = "typeObject"
)

// IdentityColumns lists the identity columns in table order.
var IdentityColumns = []string{
	ColumnID,
	ColumnGlobalID,
	ColumnTypeName,
	ColumnPredefinedType,
	ColumnName,
	ColumnContainer,
	ColumnTypeObject,
}

// KeySet is a set of dotted group.property keys.
type KeySet map[string]struct{}

// Add inserts key.
func (s KeySet) Add(key string) { s[key] = struct{}{} }

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DiscoverAttributeKeys collects group.property for every property set and
// then every quantity set entry of the elements.
func DiscoverAttributeKeys(elements []*model.Element) KeySet {
	keys := make(KeySet)
	for _, e := range elements {
		if e == nil {
			continue
		}
		for _, sets := range []map[string]map[string]model.Value{e.PropertySets, e.QuantitySets} {
			for group, props := range sets {
				for name := range props {
					keys.Add(group + "." + name)
				}
			}
		}
	}
	return keys
}

// Row maps a column name to its value. Missing columns read as Absent.
type Row map[string]model.Value

// Get returns the value of column, or Absent.
func (r Row) Get(column string) model.Value {
	return r[column]
}

// Table is a flattened batch: Columns in order and one Row per element.
type Table struct {
	Columns []string
	Rows    []Row
}

// Lookup resolves the weak references of an element. *model.Model
// implements it.
type Lookup interface {
	Container(e *model.Element) *model.Element
	TypeObject(e *model.Element) *model.Element
}

// Flattener builds rows for elements of one model.
type Flattener struct {
	lookup Lookup
	logger *slog.Logger
}

// NewFlattener creates a flattener. A nil lookup leaves the container and
// typeObject columns absent.
func NewFlattener(lookup Lookup, logger *slog.Logger) *Flattener {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Flattener{lookup: lookup, logger: logger}
}

// BuildRows resolves keys for every element. A key without '.' names an
// identity field; otherwise it is split on the first '.' into group and
// property and looked up in the property sets, then the quantity sets.
func (f *Flattener) BuildRows(elements []*model.Element, keys []string) []Row {
	rows := make([]Row, 0, len(elements))
	for _, e := range elements {
		if e == nil {
			continue
		}
		row := make(Row, len(keys))
		for _, key := range keys {
			row[key] = f.Resolve(e, key)
		}
		rows = append(rows, row)
	}
	return rows
}

// Resolve returns the value of one key on e.
func (f *Flattener) Resolve(e *model.Element, key string) model.Value {
	group, prop, dotted := strings.Cut(key, ".")
	if !dotted {
		return f.identity(e, key)
	}
	if v, ok := e.PropertySets[group][prop]; ok {
		return v
	}
	if v, ok := e.QuantitySets[group][prop]; ok {
		return v
	}
	return model.Absent()
}

func (f *Flattener) identity(e *model.Element, field string) model.Value {
	switch field {
	case ColumnID:
		return model.Number(float64(e.ID))
	case ColumnGlobalID:
		return textOrAbsent(e.GlobalID)
	case ColumnTypeName:
		return textOrAbsent(e.TypeName)
	case ColumnPredefinedType:
		return textOrAbsent(e.PredefinedType)
	case ColumnName:
		return textOrAbsent(e.Name)
	case "description":
		return textOrAbsent(e.Description)
	case "objectType":
		return textOrAbsent(e.ObjectType)
	case "tag":
		return textOrAbsent(e.Tag)
	case ColumnContainer:
		if f.lookup != nil {
			if c := f.lookup.Container(e); c != nil {
				return model.Text(c.Name)
			}
		}
	case ColumnTypeObject:
		if f.lookup != nil {
			if t := f.lookup.TypeObject(e); t != nil {
				return model.Text(t.Name)
			}
		}
	}
	return model.Absent()
}

func textOrAbsent(s string) model.Value {
	if s == "" {
		return model.Absent()
	}
	return model.Text(s)
}

// Table flattens elements with the identity columns followed by every
// discovered key in lexical order.
func (f *Flattener) Table(elements []*model.Element) Table {
	keys := DiscoverAttributeKeys(elements).Sorted()
	columns := make([]string, 0, len(IdentityColumns)+len(keys))
	columns = append(columns, IdentityColumns...)
	columns = append(columns, keys...)

	t := Table{Columns: columns, Rows: f.BuildRows(elements, columns)}
	f.logger.Debug("Flattened elements",
		"rows", len(t.Rows),
		"attributeKeys", len(keys),
	)
	return t
}
