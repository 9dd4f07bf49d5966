package sieve

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultMaxIndex bounds table growth when no WithMaxIndex option is given.
	DefaultMaxIndex = 1<<31 - 1

	// MaxIndexLimit is the largest maximum index an oracle accepts, leaving
	// room for the table length n+1 in an int.
	MaxIndexLimit = math.MaxInt - 1

	// DefaultInitialCapacity is the number of indices preallocated by New.
	DefaultInitialCapacity = 1 << 10

	// DefaultGapFill is the widest gap below a resolved query that
	// reconciliation closes by trial division.
	DefaultGapFill = 1 << 10
)

type options struct {
	logger          *zap.Logger
	maxIndex        int
	initialCapacity int
	gapFill         int
}

// Option configures an Oracle.
type Option func(*options)

// WithLogger sets the logger used for frontier and growth events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxIndex caps the largest index the table may grow to.
// Queries above it fail with ErrResourceExhausted. Values above MaxIndexLimit
// are clamped to it.
func WithMaxIndex(n int) Option {
	return func(o *options) {
		if n > 2 {
			o.maxIndex = n
		}
	}
}

// WithInitialCapacity preallocates the table for indices below n.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialCapacity = n
		}
	}
}

// WithGapFill sets how far above the frontier a query may land and still have
// the gap below it resolved during reconciliation. Zero disables gap filling.
func WithGapFill(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.gapFill = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:          zap.NewNop(),
		maxIndex:        DefaultMaxIndex,
		initialCapacity: DefaultInitialCapacity,
		gapFill:         DefaultGapFill,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxIndex > MaxIndexLimit {
		o.maxIndex = MaxIndexLimit
	}
	if o.initialCapacity > o.maxIndex+1 {
		o.initialCapacity = o.maxIndex + 1
	}
	return o
}
