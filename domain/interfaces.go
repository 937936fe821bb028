// Package domain contains the shared contracts, value vocabularies and error
// types used by the mongofluent builder packages.
//
// Builders in adapter packages accumulate state and project it into bson
// documents; this package holds the pieces they agree on: the [Operator]
// contract for search operators, the field-type and operation vocabularies a
// schema validates against, and the error taxonomy every builder reports
// failures with.
package domain

import "go.mongodb.org/mongo-driver/bson"

// FieldType enumerates the data types an Atlas Search field can be indexed
// or faceted as. The zero value means the capability is absent.
type FieldType string

const (
	// FieldTypeNone marks a capability that is not configured.
	FieldTypeNone FieldType = ""
	// FieldTypeString marks string indexing or string faceting.
	FieldTypeString FieldType = "string"
	// FieldTypeNumber marks numeric indexing or numeric faceting.
	FieldTypeNumber FieldType = "number"
	// FieldTypeDate marks date indexing or date faceting.
	FieldTypeDate FieldType = "date"
)

// Operation enumerates the operation families a schema field can allow.
type Operation string

const (
	// OperationSearch covers text, phrase and autocomplete clauses.
	OperationSearch Operation = "search"
	// OperationFacet covers facet definitions.
	OperationFacet Operation = "facet"
)

// CountType enumerates the result-count modes of a search query.
type CountType string

const (
	// CountLowerBound requests a lower bound of the matching document
	// count, which is cheaper to compute.
	CountLowerBound CountType = "lowerBound"
	// CountTotal requests the exact matching document count.
	CountTotal CountType = "total"
)

// Operator is a single search operator: a leaf clause such as text or range,
// or a nested compound group. Document returns the operator serialized as a
// one-key document, for example {"text": {"query": ..., "path": ...}}.
//
// Document must return a freshly allocated document on every call that never
// aliases state held by the operator, so that callers can mutate one built
// document without affecting another.
type Operator interface {
	Document() bson.M
}

// Comparer provides ordering operations over operand literals. It is used to
// check bound coherence, such as a range lower bound not exceeding the upper
// bound.
type Comparer interface {
	// Compare returns -1, 0, or 1 based on the comparison of two values.
	Compare(a, b any) (int, error)
	// Comparable returns true if two values can be compared.
	Comparable(a, b any) bool
}
