package lang

import "github.com/ardnew/letlang/log"

// DefaultMaxDepth is the default limit on nested grammar productions.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 1000

// DefaultMaxEvalDepth is the default limit on nested node evaluations,
// which bounds recursion through apply.
var DefaultMaxEvalDepth = 10000

// options holds the settings shared by parsing and evaluation.
type options struct {
	logger       log.Logger
	maxDepth     int
	maxEvalDepth int
	tracing      bool
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting of grammar productions.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxEvalDepth sets the maximum nesting of node evaluations.
func WithMaxEvalDepth(depth int) Option {
	return func(o *options) {
		o.maxEvalDepth = depth
	}
}

// WithTracing enables parser tracing at the trace log level.
func WithTracing(enabled bool) Option {
	return func(o *options) {
		o.tracing = enabled
	}
}

// WithLogger sets the structured logger for diagnostics and tracing.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth, maxEvalDepth: DefaultMaxEvalDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
