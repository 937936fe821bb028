// Package search contains the Atlas Search leaf clause constructors and the
// compound group builder that composes them into must/should/filter/mustNot
// buckets.
package search

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/deepclone"
)

var boundsComparer = comparer.NewComparer()

// Clause is an immutable leaf search operator built by one of the clause
// constructors. The zero value serializes to an empty document and should
// not be used.
type Clause struct {
	name string
	body bson.M
}

// Name returns the operator name, such as "text" or "range".
func (c Clause) Name() string { return c.name }

// Document implements [domain.Operator].
func (c Clause) Document() bson.M {
	return bson.M{c.name: deepclone.M(c.body)}
}

// Fuzzy configures fuzzy matching for text and autocomplete clauses.
// Zero-valued settings are omitted from the serialized clause.
type Fuzzy struct {
	// MaxEdits is the maximum single-character edit distance.
	MaxEdits int
	// PrefixLength is the number of leading characters that must match
	// exactly.
	PrefixLength int
	// MaxExpansions is the maximum number of term variations generated.
	MaxExpansions int
}

func (f Fuzzy) document() bson.M {
	doc := bson.M{}
	if f.MaxEdits > 0 {
		doc["maxEdits"] = f.MaxEdits
	}
	if f.PrefixLength > 0 {
		doc["prefixLength"] = f.PrefixLength
	}
	if f.MaxExpansions > 0 {
		doc["maxExpansions"] = f.MaxExpansions
	}
	return doc
}

// Text builds a text clause matching analyzed terms of query against a
// dot-notation path. Options:
//
// - [WithTextFuzzy]: enables fuzzy matching.
//
// - [WithTextScore]: boosts the relevance score.
func Text(query, path string, options ...TextOption) (Clause, error) {
	if err := requireArgs("text", query, path); err != nil {
		return Clause{}, err
	}
	opts := textOptions{}
	for _, option := range options {
		option(&opts)
	}
	body := bson.M{"query": query, "path": path}
	if opts.fuzzy != nil {
		body["fuzzy"] = opts.fuzzy.document()
	}
	if opts.score != nil {
		score, err := scoreDocument("text", *opts.score)
		if err != nil {
			return Clause{}, err
		}
		body["score"] = score
	}
	return Clause{name: "text", body: body}, nil
}

// Phrase builds a phrase clause matching the terms of query in order,
// allowing up to slop positions between them. Options:
//
// - [WithPhraseSlop]: sets the allowed distance between terms.
//
// - [WithPhraseScore]: boosts the relevance score.
func Phrase(query, path string, options ...PhraseOption) (Clause, error) {
	if err := requireArgs("phrase", query, path); err != nil {
		return Clause{}, err
	}
	opts := phraseOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.slop < 0 {
		return Clause{}, domain.ErrInvalidClause{
			Clause: "phrase",
			Reason: "slop must not be negative",
		}
	}
	body := bson.M{"query": query, "path": path}
	if opts.slop > 0 {
		body["slop"] = opts.slop
	}
	if opts.score != nil {
		score, err := scoreDocument("phrase", *opts.score)
		if err != nil {
			return Clause{}, err
		}
		body["score"] = score
	}
	return Clause{name: "phrase", body: body}, nil
}

// Autocomplete builds an autocomplete clause completing query against a
// path indexed for autocompletion. Options:
//
// - [WithAutocompleteFuzzy]: enables fuzzy matching.
func Autocomplete(query, path string, options ...AutocompleteOption) (Clause, error) {
	if err := requireArgs("autocomplete", query, path); err != nil {
		return Clause{}, err
	}
	opts := autocompleteOptions{}
	for _, option := range options {
		option(&opts)
	}
	body := bson.M{"query": query, "path": path}
	if opts.fuzzy != nil {
		body["fuzzy"] = opts.fuzzy.document()
	}
	return Clause{name: "autocomplete", body: body}, nil
}

// Equals builds an equals clause matching path against a single value. The
// value is passed through unchanged, so externally-defined literals such as
// object ids work as operands.
func Equals(path string, value any) (Clause, error) {
	if path == "" {
		return Clause{}, domain.ErrInvalidClause{
			Clause: "equals",
			Reason: "path must not be empty",
		}
	}
	return Clause{name: "equals", body: bson.M{"path": path, "value": value}}, nil
}

// Range builds a range clause over path. At least one bound is required;
// [WithRangeGte] and [WithRangeGt] are mutually exclusive, as are
// [WithRangeLte] and [WithRangeLt]. When both a lower and an upper bound are
// given as comparable literals, the lower bound must not exceed the upper.
func Range(path string, options ...RangeOption) (Clause, error) {
	if path == "" {
		return Clause{}, domain.ErrInvalidClause{
			Clause: "range",
			Reason: "path must not be empty",
		}
	}
	opts := rangeOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.gte != nil && opts.gt != nil {
		return Clause{}, domain.ErrInvalidClause{
			Clause: "range",
			Reason: "gte and gt are mutually exclusive",
		}
	}
	if opts.lte != nil && opts.lt != nil {
		return Clause{}, domain.ErrInvalidClause{
			Clause: "range",
			Reason: "lte and lt are mutually exclusive",
		}
	}
	body := bson.M{"path": path}
	var lower, upper any
	for operator, bound := range map[string]*bound{
		"gte": opts.gte, "gt": opts.gt, "lte": opts.lte, "lt": opts.lt,
	} {
		if bound == nil {
			continue
		}
		body[operator] = bound.value
		if operator == "gte" || operator == "gt" {
			lower = bound.value
		} else {
			upper = bound.value
		}
	}
	if len(body) == 1 {
		return Clause{}, domain.ErrInvalidClause{
			Clause: "range",
			Reason: "at least one bound is required",
		}
	}
	if lower != nil && upper != nil && boundsComparer.Comparable(lower, upper) {
		if comp, err := boundsComparer.Compare(lower, upper); err == nil && comp > 0 {
			return Clause{}, domain.ErrInvalidClause{
				Clause: "range",
				Reason: "lower bound is greater than upper bound",
			}
		}
	}
	return Clause{name: "range", body: body}, nil
}

func requireArgs(clause, query, path string) error {
	if query == "" {
		return domain.ErrInvalidClause{
			Clause: clause,
			Reason: "query must not be empty",
		}
	}
	if path == "" {
		return domain.ErrInvalidClause{
			Clause: clause,
			Reason: "path must not be empty",
		}
	}
	return nil
}

func scoreDocument(clause string, boost float64) (bson.M, error) {
	if boost <= 0 {
		return nil, domain.ErrInvalidClause{
			Clause: clause,
			Reason: fmt.Sprintf("score boost must be positive, got %v", boost),
		}
	}
	return bson.M{"boost": bson.M{"value": boost}}, nil
}
