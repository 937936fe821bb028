package searchquery

import "go.mongodb.org/mongo-driver/bson"

type facetOptions struct {
	numBuckets *int
	boundaries bson.A
}

// FacetOption configures one facet definition.
type FacetOption func(*facetOptions)

// WithNumBuckets sets the bucket count of a string facet.
func WithNumBuckets(n int) FacetOption {
	return func(o *facetOptions) { o.numBuckets = &n }
}

// WithBoundaries sets the bucket boundaries of a number or date facet.
func WithBoundaries(boundaries ...any) FacetOption {
	return func(o *facetOptions) { o.boundaries = bson.A(boundaries) }
}

type countOptions struct {
	threshold *int
}

// CountOption configures count metadata.
type CountOption func(*countOptions)

// WithCountThreshold sets the exact-count threshold for lower bound
// counting.
func WithCountThreshold(n int) CountOption {
	return func(o *countOptions) { o.threshold = &n }
}
