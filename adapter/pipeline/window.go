package pipeline

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

type boundKind int

const (
	boundUnset boundKind = iota
	boundUnbounded
	boundCurrent
	boundOffset
)

// Bound is one endpoint of a documents window, created by [Unbounded],
// [Current] or [Offset]. The zero value is not a valid bound.
type Bound struct {
	kind   boundKind
	offset int
}

// Unbounded extends the window to the partition edge.
func Unbounded() Bound { return Bound{kind: boundUnbounded} }

// Current anchors the window at the current document.
func Current() Bound { return Bound{kind: boundCurrent} }

// Offset places the window endpoint n documents away from the current one;
// negative offsets look backwards.
func Offset(n int) Bound { return Bound{kind: boundOffset, offset: n} }

func (b Bound) value() any {
	switch b.kind {
	case boundUnbounded:
		return "unbounded"
	case boundCurrent:
		return "current"
	default:
		return b.offset
	}
}

// rank positions the bound on the window axis so that lower <= upper can be
// checked. Unbounded ranks at the partition edge of its side.
func (b Bound) rank(lower bool) int {
	switch b.kind {
	case boundUnbounded:
		if lower {
			return math.MinInt
		}
		return math.MaxInt
	case boundCurrent:
		return 0
	default:
		return b.offset
	}
}

// WindowOutput is one output field of a $setWindowFields stage, created by
// [WindowField].
type WindowOutput struct {
	name     string
	operator bson.M
	lower    Bound
	upper    Bound
}

// WindowField declares a window output field computing operator (for
// example bson.M{"$sum": "$amount"}) over a documents window bounded by
// lower and upper.
func WindowField(name string, operator bson.M, lower, upper Bound) WindowOutput {
	return WindowOutput{name: name, operator: operator, lower: lower, upper: upper}
}

// SetWindowFields appends a $setWindowFields stage computing the outputs
// over windows of the sorted document stream. A sort specification and at
// least one output are required; each output's window bounds come from the
// closed {Unbounded, Current, Offset} vocabulary and must keep the lower
// bound at or before the upper bound. Options:
//
// - [WithPartitionBy]: partitions the stream before windowing.
func (b *Builder) SetWindowFields(sortBy []SortField, outputs []WindowOutput, options ...WindowOption) *Builder {
	if b.err != nil {
		return b
	}
	sortSpec, err := sortDocument("setWindowFields", sortBy)
	if err != nil {
		b.fail(err)
		return b
	}
	if len(outputs) == 0 {
		b.fail(domain.ErrInvalidClause{
			Clause: "setWindowFields",
			Reason: "at least one window output is required",
		})
		return b
	}
	outputDoc := bson.M{}
	for _, output := range outputs {
		doc, err := output.document()
		if err != nil {
			b.fail(err)
			return b
		}
		if _, ok := outputDoc[output.name]; ok {
			b.fail(domain.ErrInvalidClause{
				Clause: "setWindowFields",
				Reason: fmt.Sprintf("output field %q declared twice", output.name),
			})
			return b
		}
		outputDoc[output.name] = doc
	}

	opts := windowOptions{}
	for _, option := range options {
		option(&opts)
	}
	payload := bson.D{}
	if opts.partitionBy != nil {
		payload = append(payload, bson.E{Key: "partitionBy", Value: deepclone.Value(opts.partitionBy)})
	}
	payload = append(payload,
		bson.E{Key: "sortBy", Value: sortSpec},
		bson.E{Key: "output", Value: outputDoc},
	)
	return b.append("$setWindowFields", payload)
}

func (o WindowOutput) document() (bson.M, error) {
	if o.name == "" {
		return nil, domain.ErrInvalidClause{
			Clause: "setWindowFields",
			Reason: "output field name must not be empty",
		}
	}
	if len(o.operator) == 0 {
		return nil, domain.ErrInvalidClause{
			Clause: "setWindowFields",
			Reason: fmt.Sprintf("output field %q has no operator", o.name),
		}
	}
	for _, bound := range []Bound{o.lower, o.upper} {
		if bound.kind == boundUnset {
			return nil, domain.ErrInvalidClause{
				Clause: "setWindowFields",
				Reason: fmt.Sprintf("output field %q window bound not set", o.name),
			}
		}
	}
	if o.lower.rank(true) > o.upper.rank(false) {
		return nil, domain.ErrInvalidClause{
			Clause: "setWindowFields",
			Reason: fmt.Sprintf("output field %q window lower bound exceeds its upper bound", o.name),
		}
	}
	doc := deepclone.M(o.operator)
	doc["window"] = bson.M{
		"documents": bson.A{o.lower.value(), o.upper.value()},
	}
	return doc, nil
}
