package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"ifcaudit/internal/step"
)

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	ValueAbsent ValueKind = iota
	ValueText
	ValueNumber
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	}
	return "absent"
}

// Value is a property or quantity value: absent, text, number or boolean.
// The zero Value is Absent.
type Value struct {
	kind ValueKind
	text string
	num  float64
	b    bool
}

// Absent is the marker returned for attributes an element does not have.
func Absent() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: ValueText, text: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: ValueNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsAbsent() bool  { return v.kind == ValueAbsent }

func (v Value) AsText() (string, bool) {
	return v.text, v.kind == ValueText
}

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == ValueNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == ValueBool
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String renders the value for delimited text: "" for absent, the shortest
// round-trip form for numbers, "true"/"false" for booleans.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case ValueText:
		return v.text, nil
	case ValueNumber:
		return v.num, nil
	case ValueBool:
		return v.b, nil
	}
	return nil, nil
}

// FromStep converts a property's nominal value. Logical unknown, references
// and unset values become Absent; lists are joined with ", ".
func FromStep(sv step.Value) Value {
	u := sv.Unwrap()
	switch u.Kind {
	case step.KindInteger:
		return Number(float64(u.Int))
	case step.KindReal:
		return Number(u.Real)
	case step.KindString, step.KindBinary:
		return Text(u.Str)
	case step.KindEnum:
		if b, ok := u.AsBool(); ok {
			return Bool(b)
		}
		if u.Str == "U" || u.Str == "UNKNOWN" {
			return Absent()
		}
		return Text(u.Str)
	case step.KindList:
		if len(u.List) == 1 {
			return FromStep(u.List[0])
		}
		parts := make([]string, 0, len(u.List))
		for _, item := range u.List {
			if v := FromStep(item); !v.IsAbsent() {
				parts = append(parts, v.String())
			}
		}
		if len(parts) == 0 {
			return Absent()
		}
		return Text(strings.Join(parts, ", "))
	}
	return Absent()
}
