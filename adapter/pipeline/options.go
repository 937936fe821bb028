package pipeline

type unwindOptions struct {
	preserve   bool
	arrayIndex string
}

// UnwindOption configures an $unwind stage through the functional options
// pattern.
type UnwindOption func(*unwindOptions)

// WithPreserveNullAndEmptyArrays keeps documents whose unwound path is
// null, missing or an empty array.
func WithPreserveNullAndEmptyArrays(preserve bool) UnwindOption {
	return func(o *unwindOptions) {
		o.preserve = preserve
	}
}

// WithIncludeArrayIndex adds a field with the given name holding the array
// index of each unwound element.
func WithIncludeArrayIndex(field string) UnwindOption {
	return func(o *unwindOptions) {
		o.arrayIndex = field
	}
}

type windowOptions struct {
	partitionBy any
}

// WindowOption configures a $setWindowFields stage through the functional
// options pattern.
type WindowOption func(*windowOptions)

// WithPartitionBy partitions the document stream by an expression before
// windowing.
func WithPartitionBy(expr any) WindowOption {
	return func(o *windowOptions) {
		o.partitionBy = expr
	}
}
