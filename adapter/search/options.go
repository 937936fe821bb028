package search

type textOptions struct {
	fuzzy *Fuzzy
	score *float64
}

// TextOption configures a text clause through the functional options
// pattern.
type TextOption func(*textOptions)

// WithTextFuzzy enables fuzzy matching on a text clause.
func WithTextFuzzy(f Fuzzy) TextOption {
	return func(o *textOptions) {
		o.fuzzy = &f
	}
}

// WithTextScore boosts the relevance score of a text clause. The boost must
// be positive.
func WithTextScore(boost float64) TextOption {
	return func(o *textOptions) {
		o.score = &boost
	}
}

type phraseOptions struct {
	slop  int
	score *float64
}

// PhraseOption configures a phrase clause through the functional options
// pattern.
type PhraseOption func(*phraseOptions)

// WithPhraseSlop sets the maximum number of positions allowed between the
// phrase terms. Zero requires the terms to be adjacent and is omitted from
// the serialized clause.
func WithPhraseSlop(slop int) PhraseOption {
	return func(o *phraseOptions) {
		o.slop = slop
	}
}

// WithPhraseScore boosts the relevance score of a phrase clause. The boost
// must be positive.
func WithPhraseScore(boost float64) PhraseOption {
	return func(o *phraseOptions) {
		o.score = &boost
	}
}

type autocompleteOptions struct {
	fuzzy *Fuzzy
}

// AutocompleteOption configures an autocomplete clause through the
// functional options pattern.
type AutocompleteOption func(*autocompleteOptions)

// WithAutocompleteFuzzy enables fuzzy matching on an autocomplete clause.
func WithAutocompleteFuzzy(f Fuzzy) AutocompleteOption {
	return func(o *autocompleteOptions) {
		o.fuzzy = &f
	}
}

type bound struct {
	value any
}

type rangeOptions struct {
	gte, gt, lte, lt *bound
}

// RangeOption sets one bound of a range clause.
type RangeOption func(*rangeOptions)

// WithRangeGte sets an inclusive lower bound.
func WithRangeGte(v any) RangeOption {
	return func(o *rangeOptions) {
		o.gte = &bound{value: v}
	}
}

// WithRangeGt sets an exclusive lower bound.
func WithRangeGt(v any) RangeOption {
	return func(o *rangeOptions) {
		o.gt = &bound{value: v}
	}
}

// WithRangeLte sets an inclusive upper bound.
func WithRangeLte(v any) RangeOption {
	return func(o *rangeOptions) {
		o.lte = &bound{value: v}
	}
}

// WithRangeLt sets an exclusive upper bound.
func WithRangeLt(v any) RangeOption {
	return func(o *rangeOptions) {
		o.lt = &bound{value: v}
	}
}
