package pipeline

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

// Accumulator is one output field of a $group stage, created by the
// accumulator helpers or by [Accumulate].
type Accumulator struct {
	name     string
	operator string
	expr     any
}

// Accumulate builds an accumulator with an arbitrary operator, such as
// "$stdDevPop". The operator keeps its "$" prefix.
func Accumulate(name, operator string, expr any) Accumulator {
	return Accumulator{name: name, operator: operator, expr: expr}
}

// Sum accumulates $sum of an expression.
func Sum(name string, expr any) Accumulator { return Accumulate(name, "$sum", expr) }

// Avg accumulates $avg of an expression.
func Avg(name string, expr any) Accumulator { return Accumulate(name, "$avg", expr) }

// Min accumulates $min of an expression.
func Min(name string, expr any) Accumulator { return Accumulate(name, "$min", expr) }

// Max accumulates $max of an expression.
func Max(name string, expr any) Accumulator { return Accumulate(name, "$max", expr) }

// First accumulates $first, the expression value of the first document in
// each group.
func First(name string, expr any) Accumulator { return Accumulate(name, "$first", expr) }

// Last accumulates $last, the expression value of the last document in each
// group.
func Last(name string, expr any) Accumulator { return Accumulate(name, "$last", expr) }

// Push accumulates $push, collecting the expression values of every
// document in each group.
func Push(name string, expr any) Accumulator { return Accumulate(name, "$push", expr) }

// AddToSet accumulates $addToSet, collecting distinct expression values per
// group.
func AddToSet(name string, expr any) Accumulator { return Accumulate(name, "$addToSet", expr) }

// Group appends a $group stage. The id expression becomes the group key
// (nil groups all documents together); accumulator output field names must
// be unique and must not collide with "_id".
func (b *Builder) Group(id any, accumulators ...Accumulator) *Builder {
	if b.err != nil {
		return b
	}
	payload := bson.M{"_id": deepclone.Value(id)}
	for _, acc := range accumulators {
		if err := acc.validate(); err != nil {
			b.fail(err)
			return b
		}
		if _, ok := payload[acc.name]; ok {
			b.fail(domain.ErrDuplicateAccumulator{Name: acc.name})
			return b
		}
		payload[acc.name] = bson.M{acc.operator: deepclone.Value(acc.expr)}
	}
	return b.append("$group", payload)
}

func (a Accumulator) validate() error {
	if a.name == "" {
		return domain.ErrInvalidClause{
			Clause: "group",
			Reason: "accumulator output field name must not be empty",
		}
	}
	if !strings.HasPrefix(a.operator, "$") || len(a.operator) == 1 {
		return domain.ErrInvalidClause{
			Clause: "group",
			Reason: "accumulator operator must start with '$'",
		}
	}
	return nil
}
