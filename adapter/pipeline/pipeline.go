// Package pipeline builds ordered MongoDB aggregation pipelines. Each stage
// method validates its arguments into the stage's canonical shape and
// appends one stage document; call order is build order.
package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

// Builder accumulates aggregation stages in call order. Instances assume a
// single writer; share the built pipelines, not the builder.
//
// Validation is fail-fast: the call that introduces an invalid stage records
// the error, which is then visible through [Builder.Err] and returned by
// [Builder.Build]. Once an error is recorded, further calls are no-ops.
type Builder struct {
	stages []bson.D
	err    error
}

// New returns an empty pipeline builder.
func New() *Builder { return &Builder{} }

// Raw appends an arbitrary stage document unchanged, for stage constructs
// the builder does not model.
func (b *Builder) Raw(stage bson.D) *Builder {
	if b.err != nil {
		return b
	}
	if len(stage) == 0 {
		b.fail(domain.ErrInvalidClause{
			Clause: "raw",
			Reason: "stage document must not be empty",
		})
		return b
	}
	b.stages = append(b.stages, deepclone.D(stage))
	return b
}

// Search appends a $search stage from an assembled search query document.
func (b *Builder) Search(query bson.M) *Builder {
	return b.wrapQuery("$search", query)
}

// SearchMeta appends a $searchMeta stage from an assembled search metadata
// query document.
func (b *Builder) SearchMeta(query bson.M) *Builder {
	return b.wrapQuery("$searchMeta", query)
}

// Len returns the number of stages appended so far.
func (b *Builder) Len() int { return len(b.stages) }

// Err returns the first error recorded by a stage call.
func (b *Builder) Err() error { return b.err }

// Build returns the ordered stage sequence, each entry a fully-formed stage
// document. The order is exactly the call order, and the returned pipeline
// is independent: repeated calls never share mutable structure with each
// other or with the builder.
func (b *Builder) Build() ([]bson.D, error) {
	if b.err != nil {
		return nil, b.err
	}
	stages := make([]bson.D, len(b.stages))
	for i, stage := range b.stages {
		stages[i] = deepclone.D(stage)
	}
	return stages, nil
}

func (b *Builder) wrapQuery(name string, query bson.M) *Builder {
	if b.err != nil {
		return b
	}
	if query == nil {
		b.fail(domain.ErrInvalidClause{
			Clause: name[1:],
			Reason: "query document must not be nil",
		})
		return b
	}
	return b.append(name, deepclone.M(query))
}

// append assumes the payload is already owned by the builder; callers clone
// caller-supplied documents before handing them over.
func (b *Builder) append(name string, payload any) *Builder {
	b.stages = append(b.stages, bson.D{{Key: name, Value: payload}})
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
