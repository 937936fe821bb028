// Package schema defines the per-field capability registry that search
// queries are validated against.
//
// A [Schema] is finalized once from declared field configurations and never
// mutated afterwards, so a single instance can back any number of query
// builders concurrently.
package schema

import (
	"fmt"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

// FieldConfig describes the index and facet capabilities of a single field.
// At most one index flag and at most one facet flag may be set; a
// configuration enabling more than one is ambiguous and rejected when the
// schema is finalized.
type FieldConfig struct {
	// StringIndex enables text, phrase and autocomplete search.
	StringIndex bool `search:"string_index"`
	// StringFacet enables bucketed string faceting.
	StringFacet bool `search:"string_facet"`
	// NumberIndex enables numeric indexing.
	NumberIndex bool `search:"number_index"`
	// NumberFacet enables numeric boundary faceting.
	NumberFacet bool `search:"number_facet"`
	// DateIndex enables date indexing.
	DateIndex bool `search:"date_index"`
	// DateFacet enables date boundary faceting.
	DateFacet bool `search:"date_facet"`
}

// IsSearchable reports whether any index flag is set.
func (c FieldConfig) IsSearchable() bool {
	return c.StringIndex || c.NumberIndex || c.DateIndex
}

// IsFacetable reports whether any facet flag is set.
func (c FieldConfig) IsFacetable() bool {
	return c.StringFacet || c.NumberFacet || c.DateFacet
}

// SearchType returns the index type of the field, or [domain.FieldTypeNone]
// when the field is not searchable.
func (c FieldConfig) SearchType() domain.FieldType {
	switch {
	case c.StringIndex:
		return domain.FieldTypeString
	case c.NumberIndex:
		return domain.FieldTypeNumber
	case c.DateIndex:
		return domain.FieldTypeDate
	}
	return domain.FieldTypeNone
}

// FacetType returns the facet type of the field, or [domain.FieldTypeNone]
// when the field is not facetable.
func (c FieldConfig) FacetType() domain.FieldType {
	switch {
	case c.StringFacet:
		return domain.FieldTypeString
	case c.NumberFacet:
		return domain.FieldTypeNumber
	case c.DateFacet:
		return domain.FieldTypeDate
	}
	return domain.FieldTypeNone
}

func (c FieldConfig) validate(field string) error {
	if count(c.StringIndex, c.NumberIndex, c.DateIndex) > 1 {
		return domain.ErrSchemaDefinition{
			Field:  field,
			Reason: "more than one index type enabled",
		}
	}
	if count(c.StringFacet, c.NumberFacet, c.DateFacet) > 1 {
		return domain.ErrSchemaDefinition{
			Field:  field,
			Reason: "more than one facet type enabled",
		}
	}
	return nil
}

func count(flags ...bool) int {
	n := 0
	for _, flag := range flags {
		if flag {
			n++
		}
	}
	return n
}

// Schema is the immutable capability registry of one search index. It maps
// dot-notation field paths to their [FieldConfig] and is safe to share
// across goroutines once built.
type Schema struct {
	index  string
	fields map[string]FieldConfig
}

// DefaultIndex is the index name used when none is given.
const DefaultIndex = "default"

// New finalizes a schema for the named index from the declared fields:
//
// - [WithField]: declares a plain attribute-style field.
//
// - [WithFields]: declares fields from a dictionary, allowing dot-notation
// paths.
//
// An empty index name falls back to [DefaultIndex]. A path declared both as
// a plain field and inside a dictionary, a path declared twice in the same
// source, or a configuration enabling more than one index or facet type is
// a definition error.
func New(index string, options ...Option) (*Schema, error) {
	d := definition{
		simple: make(map[string]FieldConfig),
		dict:   make(map[string]FieldConfig),
	}
	for _, option := range options {
		option(&d)
	}
	if d.err != nil {
		return nil, d.err
	}
	if index == "" {
		index = DefaultIndex
	}

	fields := make(map[string]FieldConfig, len(d.simple)+len(d.dict))
	for name, config := range d.simple {
		if err := config.validate(name); err != nil {
			return nil, err
		}
		fields[name] = config
	}
	for name, config := range d.dict {
		if name == "" {
			return nil, domain.ErrSchemaDefinition{
				Field:  name,
				Reason: "field name must not be empty",
			}
		}
		if _, ok := fields[name]; ok {
			return nil, domain.ErrSchemaDefinition{
				Field:  name,
				Reason: "declared both as a plain field and in a field dictionary",
			}
		}
		if err := config.validate(name); err != nil {
			return nil, err
		}
		fields[name] = config
	}
	return &Schema{index: index, fields: fields}, nil
}

// Index returns the search index name the schema describes.
func (s *Schema) Index() string { return s.index }

// GetField returns the configuration of a field path and whether the path
// is declared.
func (s *Schema) GetField(name string) (FieldConfig, bool) {
	config, ok := s.fields[name]
	return config, ok
}

// SearchableFields returns a copy of the registry holding only searchable
// fields.
func (s *Schema) SearchableFields() map[string]FieldConfig {
	return s.filter(FieldConfig.IsSearchable)
}

// FacetableFields returns a copy of the registry holding only facetable
// fields.
func (s *Schema) FacetableFields() map[string]FieldConfig {
	return s.filter(FieldConfig.IsFacetable)
}

// AllFields returns a copy of the whole registry.
func (s *Schema) AllFields() map[string]FieldConfig {
	return s.filter(func(FieldConfig) bool { return true })
}

// ValidateField checks that a field path supports the given operation,
// returning [domain.ErrFieldNotConfigured] naming the path and the missing
// capability when it does not.
func (s *Schema) ValidateField(name string, operation domain.Operation) error {
	config, ok := s.fields[name]
	if !ok {
		return domain.ErrFieldNotConfigured{
			Field:     name,
			Operation: operation,
			Missing:   true,
		}
	}
	switch operation {
	case domain.OperationSearch:
		if !config.IsSearchable() {
			return domain.ErrFieldNotConfigured{Field: name, Operation: operation}
		}
	case domain.OperationFacet:
		if !config.IsFacetable() {
			return domain.ErrFieldNotConfigured{Field: name, Operation: operation}
		}
	default:
		return fmt.Errorf("unknown operation %q", operation)
	}
	return nil
}

func (s *Schema) filter(keep func(FieldConfig) bool) map[string]FieldConfig {
	fields := make(map[string]FieldConfig)
	for name, config := range s.fields {
		if keep(config) {
			fields[name] = config
		}
	}
	return fields
}
