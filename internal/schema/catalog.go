// Package schema knows the IFC entity hierarchy needed to classify model
// instances: which entity is a subtype of which, how STEP's upper-case type
// names map to canonical names, and where an entity keeps its PredefinedType.
//
// The catalog is data, not code. It ships embedded as catalog.toml and can be
// replaced with Load for tests or newer releases.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var embeddedCatalog []byte

// ErrUnsupportedSchema is returned when a file declares a schema the catalog
// has no family for.
var ErrUnsupportedSchema = errors.New("unsupported schema")

// catalogFile is the TOML layout of catalog.toml.
type catalogFile struct {
	Version    int                   `toml:"version"`
	Supertypes map[string]string     `toml:"supertypes"`
	Families   map[string]familyFile `toml:"family"`
}

type familyFile struct {
	Schemas    []string          `toml:"schemas"`
	Inherits   string            `toml:"inherits"`
	Supertypes map[string]string `toml:"supertypes"`
	Predefined map[string]int    `toml:"predefined"`
}

// Catalog holds one resolved Schema per family.
type Catalog struct {
	families map[string]*Schema
	byID     map[string]string // schema identifier -> family
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog. It panics if the embedded data is
// malformed, which only a broken build can cause.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(embeddedCatalog)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("schema: embedded catalog: %v", defaultErr))
	}
	return defaultCatalog
}

// Load parses a catalog in the catalog.toml layout.
func Load(data []byte) (*Catalog, error) {
	var cf catalogFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if cf.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version %d", cf.Version)
	}
	if len(cf.Families) == 0 {
		return nil, fmt.Errorf("catalog declares no schema families")
	}

	c := &Catalog{
		families: make(map[string]*Schema, len(cf.Families)),
		byID:     make(map[string]string),
	}
	for name := range cf.Families {
		s, err := resolveFamily(&cf, name, map[string]bool{})
		if err != nil {
			return nil, err
		}
		c.families[name] = s
		for _, id := range cf.Families[name].Schemas {
			key := strings.ToUpper(id)
			if other, dup := c.byID[key]; dup {
				return nil, fmt.Errorf("schema %s listed by families %s and %s", id, other, name)
			}
			c.byID[key] = name
		}
	}
	return c, nil
}

// resolveFamily layers a family over its parent family and the shared tree.
func resolveFamily(cf *catalogFile, name string, visiting map[string]bool) (*Schema, error) {
	fam, ok := cf.Families[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema family %q", name)
	}
	if visiting[name] {
		return nil, fmt.Errorf("schema family %q inherits from itself", name)
	}
	visiting[name] = true

	s := &Schema{
		family:     name,
		supertypes: make(map[string]string, len(cf.Supertypes)),
		predefined: make(map[string]int),
	}
	if fam.Inherits != "" {
		parent, err := resolveFamily(cf, fam.Inherits, visiting)
		if err != nil {
			return nil, err
		}
		for k, v := range parent.supertypes {
			s.supertypes[k] = v
		}
		for k, v := range parent.predefined {
			s.predefined[k] = v
		}
	} else {
		for k, v := range cf.Supertypes {
			s.supertypes[k] = v
		}
	}
	for k, v := range fam.Supertypes {
		s.supertypes[k] = v
	}
	for k, v := range fam.Predefined {
		s.predefined[k] = v
	}

	if err := s.index(); err != nil {
		return nil, fmt.Errorf("family %s: %w", name, err)
	}
	return s, nil
}

// ForSchema returns the schema view for a FILE_SCHEMA identifier such as
// "IFC4" or "IFC2X3". Matching ignores case.
func (c *Catalog) ForSchema(id string) (*Schema, error) {
	name, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSchema, id)
	}
	view := *c.families[name]
	view.id = strings.ToUpper(strings.TrimSpace(id))
	return &view, nil
}

// Schemas returns every supported schema identifier, sorted.
func (c *Catalog) Schemas() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
