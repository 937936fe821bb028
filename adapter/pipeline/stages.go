package pipeline

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

// SortField is one entry of a sort specification, created by [Asc] or
// [Desc].
type SortField struct {
	field string
	desc  bool
}

// Asc sorts a field in ascending order.
func Asc(field string) SortField { return SortField{field: field} }

// Desc sorts a field in descending order.
func Desc(field string) SortField { return SortField{field: field, desc: true} }

// Match appends a $match stage. The filter document is used as the stage
// payload unchanged, so [filter.Expression.Build] output can be passed
// directly.
func (b *Builder) Match(filter bson.M) *Builder {
	if b.err != nil {
		return b
	}
	if filter == nil {
		b.fail(domain.ErrInvalidClause{
			Clause: "match",
			Reason: "filter document must not be nil",
		})
		return b
	}
	return b.append("$match", deepclone.M(filter))
}

// Project appends a $project stage.
func (b *Builder) Project(spec bson.M) *Builder {
	return b.document("$project", spec)
}

// AddFields appends an $addFields stage.
func (b *Builder) AddFields(fields bson.M) *Builder {
	return b.document("$addFields", fields)
}

// Sort appends a $sort stage, keeping the given field order.
func (b *Builder) Sort(fields ...SortField) *Builder {
	if b.err != nil {
		return b
	}
	spec, err := sortDocument("sort", fields)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.append("$sort", spec)
}

// Limit appends a $limit stage. The limit must be positive.
func (b *Builder) Limit(n int64) *Builder {
	if b.err != nil {
		return b
	}
	if n < 1 {
		b.fail(domain.ErrInvalidClause{
			Clause: "limit",
			Reason: fmt.Sprintf("limit must be positive, got %d", n),
		})
		return b
	}
	return b.append("$limit", n)
}

// Skip appends a $skip stage. The count must not be negative.
func (b *Builder) Skip(n int64) *Builder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.fail(domain.ErrInvalidClause{
			Clause: "skip",
			Reason: fmt.Sprintf("skip must not be negative, got %d", n),
		})
		return b
	}
	return b.append("$skip", n)
}

// Unwind appends an $unwind stage over an array field path. The path is
// normalized to its "$"-prefixed form. Options:
//
// - [WithPreserveNullAndEmptyArrays]: keeps documents whose path is null,
// missing or an empty array.
//
// - [WithIncludeArrayIndex]: adds a field holding the array index of each
// unwound element.
func (b *Builder) Unwind(path string, options ...UnwindOption) *Builder {
	if b.err != nil {
		return b
	}
	if path == "" || path == "$" {
		b.fail(domain.ErrInvalidClause{
			Clause: "unwind",
			Reason: "path must not be empty",
		})
		return b
	}
	if !strings.HasPrefix(path, "$") {
		path = "$" + path
	}
	opts := unwindOptions{}
	for _, option := range options {
		option(&opts)
	}
	if !opts.preserve && opts.arrayIndex == "" {
		return b.append("$unwind", path)
	}
	payload := bson.M{"path": path}
	if opts.preserve {
		payload["preserveNullAndEmptyArrays"] = true
	}
	if opts.arrayIndex != "" {
		payload["includeArrayIndex"] = opts.arrayIndex
	}
	return b.append("$unwind", payload)
}

// Lookup appends a $lookup stage joining a foreign collection. All four
// arguments are required.
func (b *Builder) Lookup(from, localField, foreignField, as string) *Builder {
	if b.err != nil {
		return b
	}
	for _, arg := range []struct {
		name, value string
	}{
		{"from", from},
		{"localField", localField},
		{"foreignField", foreignField},
		{"as", as},
	} {
		if arg.value == "" {
			b.fail(domain.ErrInvalidClause{
				Clause: "lookup",
				Reason: fmt.Sprintf("%s must not be empty", arg.name),
			})
			return b
		}
	}
	return b.append("$lookup", bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	})
}

// Count appends a $count stage storing the document count in the named
// output field.
func (b *Builder) Count(field string) *Builder {
	if b.err != nil {
		return b
	}
	if field == "" {
		b.fail(domain.ErrInvalidClause{
			Clause: "count",
			Reason: "output field name must not be empty",
		})
		return b
	}
	return b.append("$count", field)
}

func (b *Builder) document(name string, doc bson.M) *Builder {
	if b.err != nil {
		return b
	}
	if len(doc) == 0 {
		b.fail(domain.ErrInvalidClause{
			Clause: name[1:],
			Reason: "document must not be empty",
		})
		return b
	}
	return b.append(name, deepclone.M(doc))
}

func sortDocument(clause string, fields []SortField) (bson.D, error) {
	if len(fields) == 0 {
		return nil, domain.ErrInvalidClause{
			Clause: clause,
			Reason: "at least one sort field is required",
		}
	}
	spec := make(bson.D, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		if field.field == "" {
			return nil, domain.ErrInvalidClause{
				Clause: clause,
				Reason: "sort field name must not be empty",
			}
		}
		if seen[field.field] {
			return nil, domain.ErrInvalidClause{
				Clause: clause,
				Reason: fmt.Sprintf("field %q sorted twice", field.field),
			}
		}
		seen[field.field] = true
		order := 1
		if field.desc {
			order = -1
		}
		spec = append(spec, bson.E{Key: field.field, Value: order})
	}
	return spec, nil
}
