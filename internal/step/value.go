package step

import (
	"strings"
)

// Kind identifies the shape of a parameter value in an exchange file.
type Kind uint8

const (
	KindNull    Kind = iota // $
	KindDerived             // *
	KindInteger             // 42
	KindReal                // 4.2
	KindString              // 'text'
	KindEnum                // .ENUM.
	KindBinary              // "0FF"
	KindRef                 // #12
	KindList                // (a, b)
	KindTyped               // IFCLABEL('text')
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindDerived:
		return "derived"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindBinary:
		return "binary"
	case KindRef:
		return "ref"
	case KindList:
		return "list"
	case KindTyped:
		return "typed"
	default:
		return "unknown"
	}
}

// Value is a single parameter of an entity instance.
// Str holds the decoded text of strings, the name of enumerations,
// the digits of binaries and the type name of typed parameters.
// List holds list items, or the single wrapped value of a typed parameter.
type Value struct {
	Kind Kind
	Int  int64
	Real float64
	Str  string
	Ref  int
	List []Value
}

// Null returns the unset value ($).
func Null() Value { return Value{Kind: KindNull} }

// Derived returns the derived value (*).
func Derived() Value { return Value{Kind: KindDerived} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Real returns a real value.
func Real(f float64) Value { return Value{Kind: KindReal, Real: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Enum returns an enumeration value; the name is stored without dots.
func Enum(name string) Value { return Value{Kind: KindEnum, Str: strings.ToUpper(name)} }

// Bool returns the enumeration .T. or .F.
func Bool(b bool) Value {
	if b {
		return Enum("T")
	}
	return Enum("F")
}

// Ref returns an instance reference.
func Ref(id int) Value { return Value{Kind: KindRef, Ref: id} }

// List returns a list value.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, List: items}
}

// RefList returns a list of references.
func RefList(ids ...int) Value {
	items := make([]Value, len(ids))
	for i, id := range ids {
		items[i] = Ref(id)
	}
	return List(items...)
}

// Typed wraps v in a defined type such as IFCLABEL.
func Typed(typeName string, v Value) Value {
	return Value{Kind: KindTyped, Str: strings.ToUpper(typeName), List: []Value{v}}
}

// IsNull reports whether the value is $ or *.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindDerived
}

// Unwrap strips any typed wrappers.
func (v Value) Unwrap() Value {
	for v.Kind == KindTyped && len(v.List) == 1 {
		v = v.List[0]
	}
	return v
}

// TypeName returns the outermost defined type name, or "" for untyped values.
func (v Value) TypeName() string {
	if v.Kind == KindTyped {
		return v.Str
	}
	return ""
}

// AsRef returns the referenced instance id.
func (v Value) AsRef() (int, bool) {
	if v.Kind == KindRef {
		return v.Ref, true
	}
	return 0, false
}

// AsString returns the text of a string value, unwrapping typed values.
func (v Value) AsString() (string, bool) {
	u := v.Unwrap()
	if u.Kind == KindString {
		return u.Str, true
	}
	return "", false
}

// AsEnum returns the enumeration name, unwrapping typed values.
func (v Value) AsEnum() (string, bool) {
	u := v.Unwrap()
	if u.Kind == KindEnum {
		return u.Str, true
	}
	return "", false
}

// AsFloat returns integer and real values as float64, unwrapping typed values.
func (v Value) AsFloat() (float64, bool) {
	u := v.Unwrap()
	switch u.Kind {
	case KindInteger:
		return float64(u.Int), true
	case KindReal:
		return u.Real, true
	}
	return 0, false
}

// AsBool interprets .T. and .F.; .U. and everything else report ok=false.
func (v Value) AsBool() (value bool, ok bool) {
	e, isEnum := v.AsEnum()
	if !isEnum {
		return false, false
	}
	switch e {
	case "T", "TRUE":
		return true, true
	case "F", "FALSE":
		return false, true
	}
	return false, false
}

// AsList returns the items of a list value.
func (v Value) AsList() ([]Value, bool) {
	if v.Kind == KindList {
		return v.List, true
	}
	return nil, false
}

// Refs returns every reference held directly by v: v itself when it is a
// reference, or the reference items when it is a list.
func (v Value) Refs() []int {
	switch v.Kind {
	case KindRef:
		return []int{v.Ref}
	case KindList:
		var ids []int
		for _, item := range v.List {
			if item.Kind == KindRef {
				ids = append(ids, item.Ref)
			}
		}
		return ids
	}
	return nil
}

// Floats returns the numeric items of a list value.
func (v Value) Floats() []float64 {
	items, ok := v.AsList()
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		if f, ok := item.AsFloat(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Strings returns the string items of a list value.
func (v Value) Strings() []string {
	items, ok := v.AsList()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}
