// Package step reads and writes ISO 10303-21 exchange files, the clear-text
// encoding used by IFC building models.
//
// The reader keeps every instance with its raw parameters; it knows nothing
// about the IFC schema. Interpretation of entity types and attribute
// positions lives in the model package.
package step
