package filter

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

// Field is a field-scoped predicate handle created by [Expression.Field].
// Every operator call appends to, or merges into, the predicate held for
// that field on the owning expression.
type Field struct {
	expression *Expression
	name       string
}

// Eq constrains the field to equal v. Equality is exclusive: it collapses to
// {field: value} and therefore cannot be combined with any other operator on
// the same field.
func (f *Field) Eq(v any) *Field {
	e := f.expression
	if e.err != nil {
		return f
	}
	p := f.predicate()
	switch {
	case p.eqSet:
		e.fail(f.conflict("eq", "already holds an equality predicate"))
	case len(p.ops) > 0:
		e.fail(f.conflict("eq", "already holds operator predicates"))
	default:
		p.eqSet, p.eq = true, v
	}
	return f
}

// Ne constrains the field to differ from v.
func (f *Field) Ne(v any) *Field { return f.apply("ne", "$ne", v) }

// Gt constrains the field to be greater than v.
func (f *Field) Gt(v any) *Field { return f.apply("gt", "$gt", v) }

// Gte constrains the field to be greater than or equal to v.
func (f *Field) Gte(v any) *Field { return f.apply("gte", "$gte", v) }

// Lt constrains the field to be less than v.
func (f *Field) Lt(v any) *Field { return f.apply("lt", "$lt", v) }

// Lte constrains the field to be less than or equal to v.
func (f *Field) Lte(v any) *Field { return f.apply("lte", "$lte", v) }

// In constrains the field value to be a member of values.
func (f *Field) In(values ...any) *Field {
	return f.apply("in", "$in", bson.A(values))
}

// Nin constrains the field value to not be a member of values.
func (f *Field) Nin(values ...any) *Field {
	return f.apply("nin", "$nin", bson.A(values))
}

// Exists constrains the presence of the field.
func (f *Field) Exists(exists bool) *Field {
	return f.apply("exists", "$exists", exists)
}

// Regex constrains the field to match a regular expression pattern. The
// pattern is passed through unchanged for the server to interpret.
func (f *Field) Regex(pattern string) *Field {
	return f.apply("regex", "$regex", pattern)
}

// Between is shorthand for Gte(lower) and Lte(upper) on the same field. If
// both bounds are comparable literals, lower must not exceed upper.
func (f *Field) Between(lower, upper any) *Field {
	e := f.expression
	if e.err != nil {
		return f
	}
	if e.comparer.Comparable(lower, upper) {
		if comp, err := e.comparer.Compare(lower, upper); err == nil && comp > 0 {
			e.fail(domain.ErrInvalidClause{
				Clause: "between",
				Reason: fmt.Sprintf("field %q lower bound is greater than its upper bound", f.name),
			})
			return f
		}
	}
	return f.Gte(lower).Lte(upper)
}

func (f *Field) apply(clause, operator string, v any) *Field {
	e := f.expression
	if e.err != nil {
		return f
	}
	p := f.predicate()
	if p.eqSet {
		e.fail(f.conflict(clause, "already holds an equality predicate"))
		return f
	}
	p.ops[operator] = v
	return f
}

func (f *Field) predicate() *predicate {
	e := f.expression
	p, ok := e.fields[f.name]
	if !ok {
		p = &predicate{ops: bson.M{}}
		e.fields[f.name] = p
		e.order = append(e.order, f.name)
	}
	return p
}

func (f *Field) conflict(clause, reason string) error {
	return domain.ErrInvalidClause{
		Clause: clause,
		Reason: fmt.Sprintf("field %q %s", f.name, reason),
	}
}
