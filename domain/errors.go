package domain

import "fmt"

// ErrSchemaDefinition is returned when a search schema cannot be finalized,
// either because a field path was declared twice or because a field
// configuration enables more than one index or facet type.
type ErrSchemaDefinition struct {
	// Field is the offending field path.
	Field string
	// Reason describes the definition conflict.
	Reason string
}

// Error implements [error].
func (e ErrSchemaDefinition) Error() string {
	return fmt.Sprintf("schema definition for field %q: %s", e.Field, e.Reason)
}

// ErrFieldNotConfigured is returned when an operation requires a capability
// that the field's schema entry does not declare.
type ErrFieldNotConfigured struct {
	// Field is the dot-notation path the operation targeted.
	Field string
	// Operation is the operation family that was attempted.
	Operation Operation
	// Want is set when the operation requires a specific index or facet
	// type, such as string indexing for a text clause.
	Want FieldType
	// Missing reports that the field is absent from the schema entirely.
	Missing bool
}

// Error implements [error].
func (e ErrFieldNotConfigured) Error() string {
	if e.Missing {
		return fmt.Sprintf("field %q is not defined in the search schema", e.Field)
	}
	if e.Want != FieldTypeNone {
		return fmt.Sprintf("field %q is not configured for %s %s", e.Field, e.Want, e.Operation)
	}
	return fmt.Sprintf("field %q is not configured for %s operations", e.Field, e.Operation)
}

// ErrInvalidClause is returned when a clause, predicate or stage is given
// malformed or conflicting arguments.
type ErrInvalidClause struct {
	// Clause names the clause or stage that was being built.
	Clause string
	// Reason describes what is wrong with the arguments.
	Reason string
}

// Error implements [error].
func (e ErrInvalidClause) Error() string {
	return fmt.Sprintf("invalid %s clause: %s", e.Clause, e.Reason)
}

// ErrDuplicateAccumulator is returned by the group stage when two
// accumulators share an output field name.
type ErrDuplicateAccumulator struct {
	// Name is the duplicated output field name.
	Name string
}

// Error implements [error].
func (e ErrDuplicateAccumulator) Error() string {
	return fmt.Sprintf("duplicate accumulator output field %q", e.Name)
}
