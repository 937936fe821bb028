// Package mongofluent compiles fluent builder calls into canonical MongoDB
// query, aggregation and Atlas Search documents.
//
// The package is a pure query compiler. It builds [bson.M] filter
// documents, ordered [bson.D] pipeline stages and $search/$searchMeta
// documents, but never touches a database: execution is left to whatever
// driver client the caller owns.
//
// The basic usage starts with one of the builder constructors, [NewFilter],
// [NewPipeline], [NewCompound], [NewSchema] or [NewSearch].
package mongofluent

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/filter"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/pipeline"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/schema"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/search"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/searchquery"
	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

// ErrInvalidClause is returned when a builder call receives arguments that
// cannot form a valid clause, for example an empty field name or a range
// with inverted bounds.
type ErrInvalidClause = domain.ErrInvalidClause

// ErrFieldNotConfigured is returned by schema-validated search builders
// when a field is missing from the schema or lacks the capability the
// operation needs.
type ErrFieldNotConfigured = domain.ErrFieldNotConfigured

// ErrSchemaDefinition is returned by the schema constructors when a field
// definition is contradictory or duplicated.
type ErrSchemaDefinition = domain.ErrSchemaDefinition

// ErrDuplicateAccumulator is returned by [pipeline.Builder.Group] when two
// accumulators target the same output field.
type ErrDuplicateAccumulator = domain.ErrDuplicateAccumulator

// FieldType identifies the data type a schema field is indexed or faceted
// as.
type FieldType = domain.FieldType

const (
	// FieldTypeString marks string-typed indexing or faceting.
	FieldTypeString = domain.FieldTypeString
	// FieldTypeNumber marks number-typed indexing or faceting.
	FieldTypeNumber = domain.FieldTypeNumber
	// FieldTypeDate marks date-typed indexing or faceting.
	FieldTypeDate = domain.FieldTypeDate
)

// CountType selects the counting strategy of a search query.
type CountType = domain.CountType

const (
	// CountLowerBound counts exactly up to a threshold and reports a
	// lower bound beyond it.
	CountLowerBound = domain.CountLowerBound
	// CountTotal reports the exact total count.
	CountTotal = domain.CountTotal
)

// Operator is any value that serializes itself as a single search operator
// document.
type Operator = domain.Operator

// Comparer provides ordering and comparison for different data types.
type Comparer = domain.Comparer

// FieldConfig declares the index and facet capabilities of one schema
// field.
type FieldConfig = schema.FieldConfig

// Schema is an immutable catalog of field capabilities for one search
// index.
type Schema = schema.Schema

// DefaultIndex is the index name used when none is configured.
const DefaultIndex = schema.DefaultIndex

// Clause is a single serialized search operator.
type Clause = search.Clause

// CompoundGroup composes clauses into must, should, filter and mustNot
// buckets.
type CompoundGroup = search.Group

// Fuzzy configures fuzzy matching for text and autocomplete clauses.
type Fuzzy = search.Fuzzy

// SortField names a sort key and its direction.
type SortField = pipeline.SortField

// Accumulator pairs a group output field with its accumulator expression.
type Accumulator = pipeline.Accumulator

// WindowOutput declares one $setWindowFields output field.
type WindowOutput = pipeline.WindowOutput

// Bound is one edge of a window's documents range.
type Bound = pipeline.Bound

// NewFilter creates an empty filter expression. Options:
//
// - [filter.WithComparer]: sets the comparer used to validate ranges.
func NewFilter(options ...filter.Option) *filter.Expression {
	return filter.New(options...)
}

// NewPipeline creates an empty aggregation pipeline builder.
func NewPipeline() *pipeline.Builder {
	return pipeline.New()
}

// NewCompound creates an empty compound group.
func NewCompound() *search.Group {
	return search.NewGroup()
}

// NewSchema creates a search schema for the given index. Field definitions
// are supplied through options:
//
// - [schema.WithField]: declares one top-level field.
//
// - [schema.WithFields]: declares a dictionary of fields, including
// dot-notation paths.
func NewSchema(index string, options ...schema.Option) (*schema.Schema, error) {
	return schema.New(index, options...)
}

// NewSchemaFromConfig creates a search schema from a configuration map of
// field names to flag maps, as loaded from a config file.
func NewSchemaFromConfig(index string, config map[string]any) (*schema.Schema, error) {
	return schema.FromConfig(index, config)
}

// NewSearch creates a search query builder validating against the given
// schema.
func NewSearch(s *schema.Schema) *searchquery.Builder {
	return searchquery.New(s)
}

// Asc names an ascending sort field.
func Asc(field string) SortField {
	return pipeline.Asc(field)
}

// Desc names a descending sort field.
func Desc(field string) SortField {
	return pipeline.Desc(field)
}

// Accumulate builds a group accumulator with an arbitrary operator.
func Accumulate(name, operator string, expr any) Accumulator {
	return pipeline.Accumulate(name, operator, expr)
}

// Sum accumulates $sum of an expression.
func Sum(name string, expr any) Accumulator {
	return pipeline.Sum(name, expr)
}

// Avg accumulates $avg of an expression.
func Avg(name string, expr any) Accumulator {
	return pipeline.Avg(name, expr)
}

// Min accumulates $min of an expression.
func Min(name string, expr any) Accumulator {
	return pipeline.Min(name, expr)
}

// Max accumulates $max of an expression.
func Max(name string, expr any) Accumulator {
	return pipeline.Max(name, expr)
}

// First accumulates $first of an expression.
func First(name string, expr any) Accumulator {
	return pipeline.First(name, expr)
}

// Last accumulates $last of an expression.
func Last(name string, expr any) Accumulator {
	return pipeline.Last(name, expr)
}

// Push accumulates $push of an expression.
func Push(name string, expr any) Accumulator {
	return pipeline.Push(name, expr)
}

// AddToSet accumulates $addToSet of an expression.
func AddToSet(name string, expr any) Accumulator {
	return pipeline.AddToSet(name, expr)
}

// WindowField declares a window output field for
// [pipeline.Builder.SetWindowFields].
func WindowField(name string, operator bson.M, lower, upper Bound) WindowOutput {
	return pipeline.WindowField(name, operator, lower, upper)
}

// Unbounded is the window bound covering everything before or after the
// current document.
func Unbounded() Bound {
	return pipeline.Unbounded()
}

// Current is the window bound at the current document.
func Current() Bound {
	return pipeline.Current()
}

// Offset is a window bound a fixed number of documents away from the
// current one.
func Offset(n int) Bound {
	return pipeline.Offset(n)
}

// Text builds a standalone text clause for compound group composition.
func Text(query, path string, options ...search.TextOption) (Clause, error) {
	return search.Text(query, path, options...)
}

// Phrase builds a standalone phrase clause for compound group composition.
func Phrase(query, path string, options ...search.PhraseOption) (Clause, error) {
	return search.Phrase(query, path, options...)
}

// Autocomplete builds a standalone autocomplete clause for compound group
// composition.
func Autocomplete(query, path string, options ...search.AutocompleteOption) (Clause, error) {
	return search.Autocomplete(query, path, options...)
}

// Equals builds a standalone equals clause for compound group composition.
func Equals(path string, value any) (Clause, error) {
	return search.Equals(path, value)
}

// Range builds a standalone range clause for compound group composition.
// At least one bound option is required:
//
// - [search.WithRangeGte], [search.WithRangeGt]: lower bound.
//
// - [search.WithRangeLte], [search.WithRangeLt]: upper bound.
func Range(path string, options ...search.RangeOption) (Clause, error) {
	return search.Range(path, options...)
}

// M is the unordered document type produced by filter and search builders.
type M = bson.M

// D is the ordered document type produced by pipeline builders.
type D = bson.D

// A is the array type used inside built documents.
type A = bson.A
