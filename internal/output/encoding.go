package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// DeterministicEncode produces compact byte-identical JSON output.
func DeterministicEncode(v interface{}) ([]byte, error) {
	normalized, err := normalizeValue(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(normalized); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DeterministicEncodeIndented is DeterministicEncode with indentation and
// a trailing newline.
func DeterministicEncodeIndented(v interface{}, indent string) ([]byte, error) {
	normalized, err := normalizeValue(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	if err := encoder.Encode(normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeReflect(val reflect.Value) (interface{}, error) {
	if !val.IsValid() {
		return nil, nil
	}
	if val.Type().Implements(marshalerType) {
		if (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) && val.IsNil() {
			return nil, nil
		}
		raw, err := val.Interface().(json.Marshaler).MarshalJSON()
		if err != nil {
			return nil, err
		}
		return json.RawMessage(raw), nil
	}

	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return nil, nil
		}
		return normalizeReflect(val.Elem())
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice:
		if val.IsNil() {
			return nil, nil
		}
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return val.Interface(), nil
		}
		return normalizeSlice(val)
	case reflect.Array:
		return normalizeSlice(val)
	case reflect.Struct:
		return normalizeStruct(val)
	case reflect.Float32, reflect.Float64:
		return RoundFloat(val.Float()), nil
	default:
		return val.Interface(), nil
	}
}

// normalizeMap returns a string-keyed map; encoding/json sorts its keys.
func normalizeMap(val reflect.Value) (interface{}, error) {
	if val.IsNil() {
		return nil, nil
	}
	result := make(map[string]interface{}, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		value, err := normalizeReflect(iter.Value())
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		result[mapKey(iter.Key())] = value
	}
	return result, nil
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func normalizeSlice(val reflect.Value) (interface{}, error) {
	result := make([]interface{}, val.Len())
	for i := range result {
		item, err := normalizeReflect(val.Index(i))
		if err != nil {
			return nil, err
		}
		result[i] = item
	}
	return result, nil
}

// normalizeStruct converts a struct to a map keyed by json field names.
func normalizeStruct(val reflect.Value) (interface{}, error) {
	result := make(map[string]interface{})
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		normalized, err := normalizeReflect(val.Field(i))
		if err != nil {
			return nil, err
		}
		if normalized == nil || (omitEmpty && isZeroValue(normalized)) {
			continue
		}
		result[name] = normalized
	}
	return result, nil
}

func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func isZeroValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return reflect.ValueOf(val).IsZero()
	case float64:
		return val == 0
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	default:
		return false
	}
}
