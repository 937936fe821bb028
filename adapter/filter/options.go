package filter

import "github.com/vinicius-lino-figueiredo/mongofluent/domain"

// WithComparer sets the comparer implementation used for bound-coherence
// checks in [Field.Between].
func WithComparer(c domain.Comparer) Option {
	return func(e *Expression) {
		e.comparer = c
	}
}

// Option configures expression behavior through the functional options
// pattern.
type Option func(*Expression)
