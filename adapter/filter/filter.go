// Package filter builds MongoDB filter documents from per-field predicates
// and logical combinators, using the basic mongo-like query API.
package filter

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

// Expression accumulates field predicates and serializes them into a
// canonical filter document. Instances assume a single writer; share the
// built documents, not the expression.
//
// Validation is fail-fast: the call that introduces a conflicting or
// malformed predicate records the error, which is then visible through
// [Expression.Err] and returned by [Expression.Build]. Once an error is
// recorded, further calls are no-ops.
type Expression struct {
	fields   map[string]*predicate
	order    []string
	combos   []combo
	comparer domain.Comparer
	err      error
}

type predicate struct {
	eqSet bool
	eq    any
	ops   bson.M
}

type combo struct {
	operator string
	subs     []*Expression
}

// New returns an empty filter expression. Options:
//
// - [WithComparer]: sets the comparer used for bound-coherence checks.
func New(options ...Option) *Expression {
	e := &Expression{
		fields:   make(map[string]*predicate),
		comparer: comparer.NewComparer(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Field returns the predicate handle for a field path. Successive calls for
// the same field merge into a single sub-document.
func (e *Expression) Field(name string) *Field {
	if name == "" {
		e.fail(domain.ErrInvalidClause{
			Clause: "filter",
			Reason: "field name must not be empty",
		})
	}
	return &Field{expression: e, name: name}
}

// And appends sub-expressions to the $and combinator.
func (e *Expression) And(subs ...*Expression) *Expression {
	return e.combine("$and", subs)
}

// Or appends sub-expressions to the $or combinator.
func (e *Expression) Or(subs ...*Expression) *Expression {
	return e.combine("$or", subs)
}

// Nor appends sub-expressions to the $nor combinator.
func (e *Expression) Nor(subs ...*Expression) *Expression {
	return e.combine("$nor", subs)
}

// Err returns the first error recorded by a predicate or combinator call.
func (e *Expression) Err() error { return e.err }

// Build returns the canonical filter document. A field holding only an
// equality predicate collapses to {field: value}; everything else
// serializes as {field: {"$op": operand, ...}}. Combinator sub-expressions
// serialize to arrays under their $and/$or/$nor key.
//
// The returned document is independent: repeated calls never share mutable
// structure with each other or with the expression.
func (e *Expression) Build() (bson.M, error) {
	if e.err != nil {
		return nil, e.err
	}
	doc := bson.M{}
	for _, name := range e.order {
		p := e.fields[name]
		if p.eqSet {
			doc[name] = deepclone.Value(p.eq)
			continue
		}
		doc[name] = deepclone.M(p.ops)
	}
	for _, c := range e.combos {
		arr, _ := doc[c.operator].(bson.A)
		for _, sub := range c.subs {
			subDoc, err := sub.Build()
			if err != nil {
				return nil, err
			}
			arr = append(arr, subDoc)
		}
		doc[c.operator] = arr
	}
	return doc, nil
}

func (e *Expression) combine(operator string, subs []*Expression) *Expression {
	if e.err != nil {
		return e
	}
	name := strings.TrimPrefix(operator, "$")
	if len(subs) == 0 {
		e.fail(domain.ErrInvalidClause{
			Clause: name,
			Reason: "at least one sub-expression is required",
		})
		return e
	}
	for _, sub := range subs {
		if sub == nil {
			e.fail(domain.ErrInvalidClause{
				Clause: name,
				Reason: "sub-expression must not be nil",
			})
			return e
		}
	}
	e.combos = append(e.combos, combo{operator: operator, subs: subs})
	return e
}

func (e *Expression) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
