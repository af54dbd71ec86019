// Package model exposes an IFC model as a set of read-only Elements with
// their property sets, quantity sets, placement, shape representations and
// the spatial and type relations between them.
//
// Relations are weak: an Element records the id of its container and type
// object, and the Model resolves them on demand.
package model

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/schema"
	"ifcaudit/internal/slogutil"
	"ifcaudit/internal/step"
)

// DefaultCategory is the category counted when none is given.
const DefaultCategory = "IfcProduct"

// Model is a loaded, indexed IFC file.
type Model struct {
	file   *step.File
	schema *schema.Schema
	logger *slog.Logger

	elements map[int]*Element
	order    []int

	containedIn     map[int]int   // element -> spatial structure
	aggregateParent map[int]int   // part -> whole
	fills           map[int]int   // filling element -> opening
	voids           map[int]int   // opening -> voided element
	typeOf          map[int]int   // occurrence -> type object
	instancesOf     map[int][]int // type object -> occurrences
	propDefs        map[int][]int // object -> property definitions
	layers          map[int][]string
	reps            map[int]*Representation
}

// Open reads a model from disk. Files ending in .ifczip or .zip are read
// from the first .ifc entry of the archive; .gz files are decompressed.
func Open(path string, logger *slog.Logger) (*Model, error) {
	rc, err := openModelStream(path)
	if err != nil {
		return nil, errors.New(errors.ModelUnreadable, fmt.Sprintf("cannot open %s", filepath.Base(path)), err)
	}
	defer rc.Close()

	m, err := Load(rc, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return m, nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openModelStream(path string) (io.ReadCloser, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".ifczip"), strings.HasSuffix(lower, ".zip"):
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range zr.File {
			if strings.HasSuffix(strings.ToLower(entry.Name), ".ifc") {
				rc, err := entry.Open()
				if err != nil {
					_ = zr.Close()
					return nil, err
				}
				return &multiCloser{Reader: rc, closers: []io.Closer{zr, rc}}, nil
			}
		}
		_ = zr.Close()
		return nil, fmt.Errorf("archive contains no .ifc entry")
	case strings.HasSuffix(lower, ".gz"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &multiCloser{Reader: gz, closers: []io.Closer{f, gz}}, nil
	default:
		return os.Open(path)
	}
}

// Load parses an uncompressed exchange file and indexes it against the
// embedded entity catalog.
func Load(r io.Reader, logger *slog.Logger) (*Model, error) {
	f, err := step.Parse(r)
	if err != nil {
		return nil, errors.New(errors.ModelUnreadable, "cannot parse model", err)
	}
	return FromFile(f, schema.Default(), logger)
}

// FromFile indexes an already parsed file.
func FromFile(f *step.File, catalog *schema.Catalog, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if len(f.Header.Schemas) == 0 {
		return nil, errors.New(errors.ModelUnreadable, "header declares no schema", nil)
	}
	sch, err := catalog.ForSchema(f.Header.Schemas[0])
	if err != nil {
		return nil, errors.New(errors.ModelUnreadable, "unsupported schema version", err)
	}
	if f.Len() == 0 {
		return nil, errors.New(errors.ModelUnreadable, "data section is empty", nil)
	}

	m := &Model{
		file:            f,
		schema:          sch,
		logger:          logger,
		elements:        make(map[int]*Element),
		containedIn:     make(map[int]int),
		aggregateParent: make(map[int]int),
		fills:           make(map[int]int),
		voids:           make(map[int]int),
		typeOf:          make(map[int]int),
		instancesOf:     make(map[int][]int),
		propDefs:        make(map[int][]int),
		layers:          make(map[int][]string),
		reps:            make(map[int]*Representation),
	}
	m.indexRelations()
	m.buildElements()

	logger.Debug("Model indexed",
		"schema", sch.ID(),
		"instances", f.Len(),
		"elements", len(m.elements),
	)
	return m, nil
}

// Schema returns the schema view the model was indexed with.
func (m *Model) Schema() *schema.Schema { return m.schema }

// Header returns the exchange-file header.
func (m *Model) Header() step.Header { return m.file.Header }

// Len returns the number of elements.
func (m *Model) Len() int { return len(m.order) }

// Element returns the element with the given id.
func (m *Model) Element(id int) (*Element, bool) {
	e, ok := m.elements[id]
	return e, ok
}

// AllOfCategory returns every element whose type is category or one of its
// subtypes, in id order. An empty category means DefaultCategory.
func (m *Model) AllOfCategory(category string) []*Element {
	if category == "" {
		category = DefaultCategory
	}
	return m.AllOfType(category)
}

// AllOfType returns elements of typeName or its subtypes, in id order.
// Unknown type names match nothing.
func (m *Model) AllOfType(typeName string) []*Element {
	var out []*Element
	if !m.schema.Known(typeName) {
		return out
	}
	for _, id := range m.order {
		e := m.elements[id]
		if m.schema.IsSubtypeOf(e.TypeName, typeName) {
			out = append(out, e)
		}
	}
	return out
}

// DistinctTypeNames returns the sorted concrete type names present in a
// category.
func (m *Model) DistinctTypeNames(category string) []string {
	seen := make(map[string]bool)
	for _, e := range m.AllOfCategory(category) {
		seen[e.TypeName] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContainedUnder returns elements of typeName whose container chain passes
// through the spatial element spatialID.
func (m *Model) ContainedUnder(spatialID int, typeName string) []*Element {
	var out []*Element
	for _, e := range m.AllOfType(typeName) {
		seen := make(map[int]bool)
		for c := e.ContainerID; c != 0 && !seen[c]; {
			if c == spatialID {
				out = append(out, e)
				break
			}
			seen[c] = true
			parent, ok := m.elements[c]
			if !ok {
				break
			}
			c = parent.ContainerID
		}
	}
	return out
}

// InstancesOf returns the occurrences typed by a type object, in id order.
func (m *Model) InstancesOf(typeObjectID int) []*Element {
	ids := m.instancesOf[typeObjectID]
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if e, ok := m.elements[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Container resolves e.ContainerID.
func (m *Model) Container(e *Element) *Element {
	if e == nil || e.ContainerID == 0 {
		return nil
	}
	return m.elements[e.ContainerID]
}

// TypeObject resolves e.TypeObjectID.
func (m *Model) TypeObject(e *Element) *Element {
	if e == nil || e.TypeObjectID == 0 {
		return nil
	}
	return m.elements[e.TypeObjectID]
}

// Projects returns every IfcProject element.
func (m *Model) Projects() []*Element {
	return m.AllOfType("IfcProject")
}

// Project returns the single IfcProject, failing with NoProjectElement when
// there are none or several.
func (m *Model) Project() (*Element, error) {
	projects := m.Projects()
	if len(projects) != 1 {
		return nil, errors.Newf(errors.NoProjectElement,
			"model has %d IfcProject instances, want exactly 1", len(projects)).
			WithDetails(map[string]int{"projects": len(projects)})
	}
	return projects[0], nil
}
