// Package searchquery compiles schema-validated search queries into
// $search and $searchMeta aggregation stages.
//
// A [Builder] is bound to one [schema.Schema] at construction; every clause
// call validates the target field's capabilities against the schema before
// the clause is accepted, so invalid queries fail at the call that
// introduced them.
package searchquery

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/schema"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/search"
	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

// Builder accumulates search clauses, facets and count configuration for
// one query. Instances assume a single writer; share the built documents,
// not the builder.
//
// Validation is fail-fast: the call that introduces an invalid or
// schema-rejected clause records the error, which is then visible through
// [Builder.Err] and returned by the build methods. Once an error is
// recorded, further calls are no-ops.
type Builder struct {
	schema *schema.Schema

	group         *search.Group
	compound      *search.Group
	facets        map[string]bson.M
	facetOperator *search.Group
	facetMode     bool
	count         bson.M
	err           error
}

// New returns a query builder bound to the given schema.
func New(s *schema.Schema) *Builder {
	b := &Builder{
		schema: s,
		group:  search.NewGroup(),
		facets: make(map[string]bson.M),
	}
	if s == nil {
		b.err = domain.ErrInvalidClause{
			Clause: "search",
			Reason: "schema must not be nil",
		}
	}
	return b
}

// Schema returns the schema the builder validates against.
func (b *Builder) Schema() *schema.Schema { return b.schema }

// Text adds a text clause over a string-indexed field. The clause joins the
// implicit compound group's must bucket; one-clause queries serialize the
// operator at the top level of the search document.
func (b *Builder) Text(query, field string, options ...search.TextOption) *Builder {
	if !b.allowClause(field) {
		return b
	}
	clause, err := search.Text(query, field, options...)
	return b.attach(clause, err)
}

// Phrase adds a phrase clause over a string-indexed field.
func (b *Builder) Phrase(query, field string, options ...search.PhraseOption) *Builder {
	if !b.allowClause(field) {
		return b
	}
	clause, err := search.Phrase(query, field, options...)
	return b.attach(clause, err)
}

// Autocomplete adds an autocomplete clause over a string-indexed field.
func (b *Builder) Autocomplete(query, field string, options ...search.AutocompleteOption) *Builder {
	if !b.allowClause(field) {
		return b
	}
	clause, err := search.Autocomplete(query, field, options...)
	return b.attach(clause, err)
}

// Compound attaches a caller-supplied compound group wholesale. The builder
// does not re-validate clauses already assembled inside the group; once a
// raw group is supplied, validating its contents against the schema is the
// caller's responsibility. Compound cannot be combined with direct clause
// calls on the same builder.
func (b *Builder) Compound(group *search.Group) *Builder {
	if b.err != nil {
		return b
	}
	switch {
	case group == nil:
		b.fail(domain.ErrInvalidClause{
			Clause: "compound",
			Reason: "group must not be nil",
		})
	case b.compound != nil:
		b.fail(domain.ErrInvalidClause{
			Clause: "compound",
			Reason: "a compound group is already attached",
		})
	case !b.group.Empty():
		b.fail(domain.ErrInvalidClause{
			Clause: "compound",
			Reason: "cannot combine a compound group with direct clauses",
		})
	case b.facetMode:
		b.fail(domain.ErrInvalidClause{
			Clause: "compound",
			Reason: "cannot combine a compound group with facet operator mode",
		})
	default:
		b.compound = group
	}
	return b
}

// UseFacetOperator switches the builder into operator-plus-facets mode: the
// search document nests the operator and the facet definitions under a
// single "facet" key, the form consumed by $searchMeta. A nil group emits
// the facets without an operator. The mode cannot be combined with direct
// clauses or an attached compound group.
func (b *Builder) UseFacetOperator(group *search.Group) *Builder {
	if b.err != nil {
		return b
	}
	switch {
	case b.facetMode:
		b.fail(domain.ErrInvalidClause{
			Clause: "facet",
			Reason: "facet operator mode is already enabled",
		})
	case b.compound != nil || !b.group.Empty():
		b.fail(domain.ErrInvalidClause{
			Clause: "facet",
			Reason: "cannot combine facet operator mode with query operators",
		})
	default:
		b.facetMode = true
		b.facetOperator = group
	}
	return b
}

// Count attaches count metadata to the query. Options:
//
// - [WithCountThreshold]: exact counting up to the threshold.
func (b *Builder) Count(countType domain.CountType, options ...CountOption) *Builder {
	if b.err != nil {
		return b
	}
	if countType != domain.CountLowerBound && countType != domain.CountTotal {
		b.fail(domain.ErrInvalidClause{
			Clause: "count",
			Reason: `count type must be "lowerBound" or "total"`,
		})
		return b
	}
	opts := countOptions{}
	for _, option := range options {
		option(&opts)
	}
	count := bson.M{"type": string(countType)}
	if opts.threshold != nil {
		if *opts.threshold < 1 {
			b.fail(domain.ErrInvalidClause{
				Clause: "count",
				Reason: "threshold must be positive",
			})
			return b
		}
		count["threshold"] = *opts.threshold
	}
	b.count = count
	return b
}

// Err returns the first error recorded by a builder call.
func (b *Builder) Err() error { return b.err }

// Build assembles the search query document: the index name, the query
// operator (or the "facet" composite in facet operator mode), the facet
// definitions and the count configuration. The result is independent:
// repeated calls never share mutable structure with each other or with the
// builder.
func (b *Builder) Build() (bson.M, error) {
	if b.err != nil {
		return nil, b.err
	}
	doc := bson.M{"index": b.schema.Index()}

	if b.facetMode {
		facet := bson.M{}
		if b.facetOperator != nil {
			operator, err := b.operatorDocument(b.facetOperator, false)
			if err != nil {
				return nil, err
			}
			facet["operator"] = operator
		}
		if len(b.facets) > 0 {
			facet["facets"] = b.facetsDocument()
		}
		doc["facet"] = facet
	} else {
		source := b.compound
		collapse := false
		if source == nil {
			source, collapse = b.group, true
		}
		if err := source.Err(); err != nil {
			return nil, err
		}
		if !source.Empty() {
			operator, err := b.operatorDocument(source, collapse)
			if err != nil {
				return nil, err
			}
			for name, body := range operator {
				doc[name] = body
			}
		}
		if len(b.facets) > 0 {
			doc["facet"] = bson.M{"facets": b.facetsDocument()}
		}
	}

	if b.count != nil {
		doc["count"] = deepclone.M(b.count)
	}
	return doc, nil
}

// BuildStage assembles the query as a $search pipeline stage.
func (b *Builder) BuildStage() (bson.D, error) {
	doc, err := b.Build()
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "$search", Value: doc}}, nil
}

// BuildMetaStage assembles the query as a $searchMeta pipeline stage.
func (b *Builder) BuildMetaStage() (bson.D, error) {
	doc, err := b.Build()
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "$searchMeta", Value: doc}}, nil
}

// operatorDocument serializes a group as a single operator document,
// collapsing one-clause groups to the bare operator when asked to.
func (b *Builder) operatorDocument(group *search.Group, collapse bool) (bson.M, error) {
	if collapse {
		if op, ok := group.Single(); ok {
			return op.Document(), nil
		}
	}
	body, err := group.Build()
	if err != nil {
		return nil, err
	}
	return bson.M{"compound": body}, nil
}

func (b *Builder) facetsDocument() bson.M {
	facets := make(bson.M, len(b.facets))
	for name, facet := range b.facets {
		facets[name] = deepclone.M(facet)
	}
	return facets
}

// allowClause validates that a direct clause may target the field: the
// builder must not be in compound or facet operator mode, and the field
// must be string-indexed.
func (b *Builder) allowClause(field string) bool {
	if b.err != nil {
		return false
	}
	if b.compound != nil {
		b.fail(domain.ErrInvalidClause{
			Clause: "search",
			Reason: "cannot combine direct clauses with an attached compound group",
		})
		return false
	}
	if b.facetMode {
		b.fail(domain.ErrInvalidClause{
			Clause: "search",
			Reason: "cannot combine direct clauses with facet operator mode",
		})
		return false
	}
	if err := b.schema.ValidateField(field, domain.OperationSearch); err != nil {
		b.fail(err)
		return false
	}
	config, _ := b.schema.GetField(field)
	if config.SearchType() != domain.FieldTypeString {
		b.fail(domain.ErrFieldNotConfigured{
			Field:     field,
			Operation: domain.OperationSearch,
			Want:      domain.FieldTypeString,
		})
		return false
	}
	return true
}

func (b *Builder) attach(clause search.Clause, err error) *Builder {
	if err != nil {
		b.fail(err)
		return b
	}
	b.group.Must().Clause(clause)
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
