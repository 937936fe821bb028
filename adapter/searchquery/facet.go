package searchquery

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

// defaultNumBuckets is the bucket count applied to string facets that do
// not configure one explicitly.
const defaultNumBuckets = 10

var boundariesComparer = comparer.NewComparer()

// Facet adds a facet over a facetable field. The facet kind follows the
// field's schema configuration:
//
//   - string facets accept [WithNumBuckets] (default 10) and reject
//     boundaries;
//   - number and date facets require [WithBoundaries] with at least two
//     strictly ascending values of the matching type, and reject a bucket
//     count.
func (b *Builder) Facet(field string, options ...FacetOption) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.schema.ValidateField(field, domain.OperationFacet); err != nil {
		b.fail(err)
		return b
	}
	if _, ok := b.facets[field]; ok {
		b.fail(domain.ErrInvalidClause{
			Clause: "facet",
			Reason: fmt.Sprintf("field %q already holds a facet", field),
		})
		return b
	}

	opts := facetOptions{}
	for _, option := range options {
		option(&opts)
	}

	config, _ := b.schema.GetField(field)
	facet, err := facetDocument(field, config.FacetType(), opts)
	if err != nil {
		b.fail(err)
		return b
	}
	b.facets[field] = facet
	return b
}

// FacetAll adds a default facet for every facetable field in the schema
// that does not already hold one. String facets get the default bucket
// count; number and date facets are emitted without boundaries, leaving
// bucketing to the server.
func (b *Builder) FacetAll() *Builder {
	if b.err != nil {
		return b
	}
	for field, config := range b.schema.FacetableFields() {
		if _, ok := b.facets[field]; ok {
			continue
		}
		facetType := config.FacetType()
		facet := bson.M{"type": string(facetType), "path": field}
		if facetType == domain.FieldTypeString {
			facet["numBuckets"] = defaultNumBuckets
		}
		b.facets[field] = facet
	}
	return b
}

// facetDocument builds one facet definition, enforcing the option rules
// for the field's facet kind.
func facetDocument(field string, facetType domain.FieldType, opts facetOptions) (bson.M, error) {
	facet := bson.M{"type": string(facetType), "path": field}
	switch facetType {
	case domain.FieldTypeString:
		if opts.boundaries != nil {
			return nil, domain.ErrInvalidClause{
				Clause: "facet",
				Reason: fmt.Sprintf("string facet on field %q does not take boundaries", field),
			}
		}
		buckets := defaultNumBuckets
		if opts.numBuckets != nil {
			if *opts.numBuckets < 1 {
				return nil, domain.ErrInvalidClause{
					Clause: "facet",
					Reason: "numBuckets must be positive",
				}
			}
			buckets = *opts.numBuckets
		}
		facet["numBuckets"] = buckets
	case domain.FieldTypeNumber, domain.FieldTypeDate:
		if opts.numBuckets != nil {
			return nil, domain.ErrInvalidClause{
				Clause: "facet",
				Reason: fmt.Sprintf("%s facet on field %q does not take numBuckets", facetType, field),
			}
		}
		if len(opts.boundaries) < 2 {
			return nil, domain.ErrInvalidClause{
				Clause: "facet",
				Reason: fmt.Sprintf("%s facet on field %q requires at least two boundaries", facetType, field),
			}
		}
		if err := checkBoundaries(field, facetType, opts.boundaries); err != nil {
			return nil, err
		}
		facet["boundaries"] = deepclone.Value(opts.boundaries)
	}
	return facet, nil
}

// checkBoundaries verifies boundary element types and strict ascending
// order.
func checkBoundaries(field string, facetType domain.FieldType, boundaries bson.A) error {
	for _, boundary := range boundaries {
		if !boundaryMatches(facetType, boundary) {
			return domain.ErrInvalidClause{
				Clause: "facet",
				Reason: fmt.Sprintf("%s facet on field %q has boundary of type %T", facetType, field, boundary),
			}
		}
	}
	for i := 1; i < len(boundaries); i++ {
		cmp, err := boundariesComparer.Compare(boundaries[i-1], boundaries[i])
		if err != nil {
			return domain.ErrInvalidClause{Clause: "facet", Reason: err.Error()}
		}
		if cmp >= 0 {
			return domain.ErrInvalidClause{
				Clause: "facet",
				Reason: fmt.Sprintf("%s facet on field %q boundaries must be strictly ascending", facetType, field),
			}
		}
	}
	return nil
}

func boundaryMatches(facetType domain.FieldType, boundary any) bool {
	switch facetType {
	case domain.FieldTypeDate:
		_, ok := boundary.(time.Time)
		return ok
	default:
		switch boundary.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	}
}
