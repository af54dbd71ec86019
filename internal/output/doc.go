// Package output encodes command results as byte-identical JSON.
//
// DeterministicEncode normalizes a value before encoding:
//
//  1. Object keys are sorted, including struct fields, which are keyed by
//     their json tag.
//  2. Floats are rounded to at most 6 decimal places, so 1.2*1.5 is written
//     as 1.8 rather than 1.7999999999999998.
//  3. Nil pointers, nil slices and nil map entries are omitted. Empty but
//     non-nil slices and maps are kept as [] and {}.
//  4. Values implementing json.Marshaler, such as model values and
//     timestamps, are encoded by their own MarshalJSON.
//
// Two runs over the same model therefore produce the same bytes, which is
// what golden-file tests of the CLI rely on.
package output
