// Package comparer contains the default [domain.Comparer] implementation
// used for bound-coherence checks on range predicates and facet boundaries.
package comparer

import (
	"cmp"
	"fmt"
	"math/big"
	"time"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

// Comparer implements [domain.Comparer] over the literal operand types that
// carry an ordering: numbers, strings and times.
type Comparer struct{}

// NewComparer returns a new implementation of domain.Comparer.
func NewComparer() domain.Comparer {
	return &Comparer{}
}

// Comparable implements [domain.Comparer].
func (c *Comparer) Comparable(a, b any) bool {
	if _, ok := c.asNumber(a); ok {
		_, ok = c.asNumber(b)
		return ok
	}

	equal := false
	switch a.(type) {
	case string:
		_, equal = b.(string)
	case time.Time:
		_, equal = b.(time.Time)
	}
	return equal
}

// Compare implements [domain.Comparer].
func (c *Comparer) Compare(a any, b any) (int, error) {
	// Numbers
	if comp, ok := c.checkNumbers(a, b); ok {
		return comp, nil
	}

	// Strings
	if comp, ok := c.checkStrings(a, b); ok {
		return comp, nil
	}

	// Dates
	if comp, ok := c.checkTime(a, b); ok {
		return comp, nil
	}

	return 0, fmt.Errorf("cannot compare unexpected types %T and %T", a, b)
}

func (c *Comparer) checkNumbers(a, b any) (int, bool) {
	if a, ok := c.asNumber(a); ok {
		// Using big.Float to safely compare float64 and int64 without
		// precision loss
		if b, ok := c.asNumber(b); ok {
			return a.Cmp(b), true
		}
		return 0, false
	}
	return 0, false
}

func (c *Comparer) checkStrings(a, b any) (int, bool) {
	if a, ok := a.(string); ok {
		if b, ok := b.(string); ok {
			return cmp.Compare(a, b), true
		}
	}
	return 0, false
}

func (c *Comparer) checkTime(a, b any) (int, bool) {
	if a, ok := a.(time.Time); ok {
		if b, ok := b.(time.Time); ok {
			return a.Compare(b), true
		}
	}
	return 0, false
}

func (c *Comparer) asNumber(v any) (*big.Float, bool) {
	switch t := v.(type) {
	case int:
		return new(big.Float).SetInt64(int64(t)), true
	case int8:
		return new(big.Float).SetInt64(int64(t)), true
	case int16:
		return new(big.Float).SetInt64(int64(t)), true
	case int32:
		return new(big.Float).SetInt64(int64(t)), true
	case int64:
		return new(big.Float).SetInt64(t), true
	case uint:
		return new(big.Float).SetUint64(uint64(t)), true
	case uint8:
		return new(big.Float).SetUint64(uint64(t)), true
	case uint16:
		return new(big.Float).SetUint64(uint64(t)), true
	case uint32:
		return new(big.Float).SetUint64(uint64(t)), true
	case uint64:
		return new(big.Float).SetUint64(t), true
	case float32:
		return new(big.Float).SetFloat64(float64(t)), true
	case float64:
		return new(big.Float).SetFloat64(t), true
	default:
		return nil, false
	}
}
