package search

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

// Group composes clauses and nested groups into the four compound buckets:
// must, should, filter and mustNot. Entries keep their insertion order per
// bucket, empty buckets are omitted from the serialized form, and nesting
// depth is unbounded.
//
// Appender errors are recorded on the group and surface through [Group.Err]
// and [Group.Build]; once an error is recorded, further appends are no-ops.
// Create groups with [NewGroup]; instances assume a single writer.
type Group struct {
	must, should, filter, mustNot []entry

	minimumShouldMatch int
	err                error
}

type entry struct {
	op  domain.Operator
	sub *Group
}

// NewGroup returns an empty compound group.
func NewGroup() *Group { return &Group{} }

// Must returns the appender for the must bucket: every entry has to match
// and contributes to the relevance score.
func (g *Group) Must() *Bucket {
	return &Bucket{group: g, target: &g.must}
}

// Should returns the appender for the should bucket: entries are preferred
// and raise the score of documents matching them.
func (g *Group) Should() *Bucket {
	return &Bucket{group: g, target: &g.should}
}

// Filter returns the appender for the filter bucket: every entry has to
// match, without affecting the relevance score.
func (g *Group) Filter() *Bucket {
	return &Bucket{group: g, target: &g.filter}
}

// MustNot returns the appender for the mustNot bucket: no entry may match.
func (g *Group) MustNot() *Bucket {
	return &Bucket{group: g, target: &g.mustNot}
}

// MinimumShouldMatch sets the minimum number of should entries that have to
// match. The threshold is serialized alongside a non-empty should bucket and
// omitted otherwise.
func (g *Group) MinimumShouldMatch(n int) *Group {
	if g.err != nil {
		return g
	}
	if n < 0 {
		g.fail(domain.ErrInvalidClause{
			Clause: "compound",
			Reason: "minimumShouldMatch must not be negative",
		})
		return g
	}
	g.minimumShouldMatch = n
	return g
}

// Err returns the first error recorded by an appender call on this group.
// Errors recorded on nested groups surface when building.
func (g *Group) Err() error { return g.err }

// Empty reports whether no bucket holds any entry.
func (g *Group) Empty() bool {
	return len(g.must)+len(g.should)+len(g.filter)+len(g.mustNot) == 0
}

// Single returns the group's only operator when exactly one leaf entry
// lives in the must bucket and every other bucket is empty. Callers use it
// to collapse one-clause groups to a bare operator.
func (g *Group) Single() (domain.Operator, bool) {
	if len(g.must) != 1 || len(g.should)+len(g.filter)+len(g.mustNot) > 0 {
		return nil, false
	}
	e := g.must[0]
	if e.sub != nil {
		return nil, false
	}
	return e.op, true
}

// Build serializes the group into its compound body, omitting empty
// buckets and recursing into nested groups. Given the same append sequence
// the output is structurally identical, and every call returns an
// independent document.
func (g *Group) Build() (bson.M, error) {
	if g.err != nil {
		return nil, g.err
	}
	doc := bson.M{}
	for _, b := range []struct {
		name    string
		entries []entry
	}{
		{"must", g.must},
		{"should", g.should},
		{"filter", g.filter},
		{"mustNot", g.mustNot},
	} {
		if len(b.entries) == 0 {
			continue
		}
		arr := make(bson.A, 0, len(b.entries))
		for _, e := range b.entries {
			entryDoc, err := e.document()
			if err != nil {
				return nil, err
			}
			arr = append(arr, entryDoc)
		}
		doc[b.name] = arr
	}
	if g.minimumShouldMatch > 0 && len(g.should) > 0 {
		doc["minimumShouldMatch"] = g.minimumShouldMatch
	}
	return doc, nil
}

func (g *Group) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

func (e entry) document() (bson.M, error) {
	if e.sub != nil {
		body, err := e.sub.Build()
		if err != nil {
			return nil, err
		}
		return bson.M{"compound": body}, nil
	}
	return e.op.Document(), nil
}

// Bucket appends clauses and nested groups to one compound bucket,
// preserving insertion order. It is created by the bucket accessors on
// [Group].
type Bucket struct {
	group  *Group
	target *[]entry
}

// Text appends a text clause, see [Text].
func (b *Bucket) Text(query, path string, options ...TextOption) *Bucket {
	return b.append(Text(query, path, options...))
}

// Phrase appends a phrase clause, see [Phrase].
func (b *Bucket) Phrase(query, path string, options ...PhraseOption) *Bucket {
	return b.append(Phrase(query, path, options...))
}

// Autocomplete appends an autocomplete clause, see [Autocomplete].
func (b *Bucket) Autocomplete(query, path string, options ...AutocompleteOption) *Bucket {
	return b.append(Autocomplete(query, path, options...))
}

// Range appends a range clause, see [Range].
func (b *Bucket) Range(path string, options ...RangeOption) *Bucket {
	return b.append(Range(path, options...))
}

// Equals appends an equals clause, see [Equals].
func (b *Bucket) Equals(path string, value any) *Bucket {
	return b.append(Equals(path, value))
}

// Clause appends an already-built operator.
func (b *Bucket) Clause(op domain.Operator) *Bucket {
	if b.group.err != nil {
		return b
	}
	if op == nil {
		b.group.fail(domain.ErrInvalidClause{
			Clause: "compound",
			Reason: "operator must not be nil",
		})
		return b
	}
	*b.target = append(*b.target, entry{op: op})
	return b
}

// Group nests another compound group into the bucket. Errors recorded on
// the nested group propagate when the outer group builds.
func (b *Bucket) Group(sub *Group) *Bucket {
	if b.group.err != nil {
		return b
	}
	if sub == nil {
		b.group.fail(domain.ErrInvalidClause{
			Clause: "compound",
			Reason: "nested group must not be nil",
		})
		return b
	}
	*b.target = append(*b.target, entry{sub: sub})
	return b
}

func (b *Bucket) append(c Clause, err error) *Bucket {
	if b.group.err != nil {
		return b
	}
	if err != nil {
		b.group.fail(err)
		return b
	}
	*b.target = append(*b.target, entry{op: c})
	return b
}
