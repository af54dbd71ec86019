package step

import (
	"sort"
	"strings"
)

// Header holds the three mandatory header entities of an exchange file plus
// any additional header records, kept for round-tripping.
type Header struct {
	Description         []string
	ImplementationLevel string
	Name                string
	TimeStamp           string
	Author              []string
	Organization        []string
	PreprocessorVersion string
	OriginatingSystem   string
	Authorization       string
	Schemas             []string
	Extra               []Part
}

// Part is one simple record: an entity type name and its parameters.
type Part struct {
	Type  string
	Attrs []Value
}

// Instance is a numbered entity instance from the DATA section.
// Complex instances (several records under one number) keep their records
// in Parts and have an empty Type.
type Instance struct {
	ID    int
	Type  string
	Attrs []Value
	Parts []Part
}

// Attr returns parameter i, or Null when the instance has fewer parameters.
func (inst *Instance) Attr(i int) Value {
	if inst == nil || i < 0 || i >= len(inst.Attrs) {
		return Null()
	}
	return inst.Attrs[i]
}

// IsComplex reports whether the instance is a complex (multi-record) instance.
func (inst *Instance) IsComplex() bool {
	return len(inst.Parts) > 0
}

// File is a parsed exchange file.
type File struct {
	Header Header

	instances map[int]*Instance
	order     []int
	byType    map[string][]int
	maxID     int
}

// NewFile creates an empty file for the given schema identifiers.
func NewFile(schemas ...string) *File {
	return &File{
		Header:    Header{Schemas: schemas, ImplementationLevel: "2;1"},
		instances: make(map[int]*Instance),
		byType:    make(map[string][]int),
	}
}

// Len returns the number of instances.
func (f *File) Len() int {
	return len(f.order)
}

// MaxID returns the highest instance number in use.
func (f *File) MaxID() int {
	return f.maxID
}

// Instance returns the instance with the given number.
func (f *File) Instance(id int) (*Instance, bool) {
	inst, ok := f.instances[id]
	return inst, ok
}

// Instances returns all instances in file order.
func (f *File) Instances() []*Instance {
	out := make([]*Instance, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.instances[id])
	}
	return out
}

// ByType returns the simple instances whose type matches exactly
// (case-insensitive), in file order.
func (f *File) ByType(typeName string) []*Instance {
	ids := f.byType[strings.ToUpper(typeName)]
	out := make([]*Instance, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.instances[id])
	}
	return out
}

// TypeNames returns the distinct simple-instance type names, sorted.
func (f *File) TypeNames() []string {
	names := make([]string, 0, len(f.byType))
	for name := range f.byType {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add appends a new simple instance with the next free number and returns it.
func (f *File) Add(typeName string, attrs ...Value) *Instance {
	inst := &Instance{ID: f.maxID + 1, Type: strings.ToUpper(typeName), Attrs: attrs}
	f.insert(inst)
	return inst
}

func (f *File) insert(inst *Instance) {
	if f.instances == nil {
		f.instances = make(map[int]*Instance)
		f.byType = make(map[string][]int)
	}
	f.instances[inst.ID] = inst
	f.order = append(f.order, inst.ID)
	if inst.Type != "" {
		f.byType[inst.Type] = append(f.byType[inst.Type], inst.ID)
	}
	if inst.ID > f.maxID {
		f.maxID = inst.ID
	}
}
