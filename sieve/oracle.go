package sieve

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Oracle answers primality queries, keeping everything it learns.
//
// The table, frontier, horizon and primes list are one unit guarded by mu.
// Cached answers are served under the read lock; anything that grows the
// table or moves the frontier holds the write lock for the whole query.
type Oracle struct {
	id       string
	logger   *zap.Logger
	maxIndex int
	gapFill  int

	mu    sync.RWMutex
	table *Table
	// every index in [0, frontier] is resolved
	frontier int
	// multiples of every listed prime p are marked composite over [p*p, horizon]
	horizon int
	// exactly the primes <= frontier, ascending
	primes []int

	stats counters
}

// New returns a cold oracle knowing only 0, 1 and 2.
func New(opts ...Option) *Oracle {
	o := newOptions(opts)
	id := uuid.New().String()
	return &Oracle{
		id:       id,
		logger:   o.logger.With(zap.String("oracle_id", id)),
		maxIndex: o.maxIndex,
		gapFill:  o.gapFill,
		table:    NewTable(o.initialCapacity),
		frontier: 2,
		horizon:  2,
		primes:   []int{2},
	}
}

// ID identifies the oracle in logs.
func (o *Oracle) ID() string {
	return o.id
}

// IsPrime reports whether n is prime.
// Negative n fails with ErrInvalidArgument and n above the configured maximum
// index fails with ErrResourceExhausted; neither touches the oracle's state.
func (o *Oracle) IsPrime(n int) (bool, error) {
	o.stats.queries.Add(1)
	if n < 0 {
		return false, o.reject(n, fmt.Errorf("%w: %d is negative", ErrInvalidArgument, n))
	}
	if s, ok := o.cached(n); ok {
		o.stats.cacheHits.Add(1)
		return s == Prime, nil
	}
	if n > o.maxIndex {
		return false, o.reject(n, fmt.Errorf("%w: index %d exceeds maximum %d", ErrResourceExhausted, n, o.maxIndex))
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// another writer may have resolved n while we waited
	if s := o.table.Status(n); s.Resolved() {
		o.stats.cacheHits.Add(1)
		return s == Prime, nil
	}
	return o.resolve(n) == Prime, nil
}

func (o *Oracle) reject(n int, err error) error {
	o.stats.rejected.Add(1)
	o.logger.Warn("query rejected", zap.Int("n", n), zap.Error(err))
	return err
}

func (o *Oracle) cached(n int) (Status, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	s := o.table.Status(n)
	return s, s.Resolved()
}

func (o *Oracle) resolve(n int) Status {
	if n >= o.table.Len() {
		o.table.Grow(n)
		o.logger.Debug("table grown", zap.Int("n", n), zap.Int("len", o.table.Len()))
	}

	before := o.frontier
	s := o.classify(n)
	o.table.Resolve(n, s)
	o.reconcile(n)

	if o.frontier != before {
		o.logger.Debug("frontier advanced",
			zap.Int("from", before),
			zap.Int("to", o.frontier),
			zap.Int("primes", len(o.primes)),
		)
	}
	return s
}

// classify decides n by trial division against the listed primes, extending
// the frontier towards sqrt(n) only when those are not enough.
func (o *Oracle) classify(n int) Status {
	if o.trialDivide(n) == Composite {
		return Composite
	}

	limit := isqrt(n)
	if limit <= o.frontier {
		return Prime
	}

	o.extendHorizon(limit)
	for r := o.frontier + 1; r <= limit; r++ {
		o.stats.sieveSteps.Add(1)
		if o.table.Status(r) == Composite {
			o.frontier = r
			continue
		}
		// Unknown here means no listed prime sieved r out, so r is prime.
		o.table.Resolve(r, Prime)
		o.admit(r)
		o.frontier = r

		o.stats.trialDivisions.Add(1)
		if n%r == 0 {
			return Composite
		}
	}
	return Prime
}

// trialDivide returns Composite if a listed prime divides n, Unknown otherwise.
func (o *Oracle) trialDivide(n int) Status {
	for _, p := range o.primes {
		if p > n/p {
			break
		}
		o.stats.trialDivisions.Add(1)
		if n%p == 0 {
			return Composite
		}
	}
	return Unknown
}

// extendHorizon pushes elimination of every listed prime out to limit.
func (o *Oracle) extendHorizon(limit int) {
	if limit <= o.horizon {
		return
	}
	for _, p := range o.primes {
		if p > limit/p {
			break
		}
		o.stats.eliminations.Add(uint64(o.table.Eliminate(p, o.horizon+1, limit)))
	}
	o.horizon = limit
}

// admit appends p to the primes list and eliminates its multiples up to the horizon.
func (o *Oracle) admit(p int) {
	o.primes = append(o.primes, p)
	o.stats.eliminations.Add(uint64(o.table.Eliminate(p, p*p, o.horizon)))
}

// reconcile advances the frontier over the contiguous resolved run above it.
// When n sits at most gapFill indices above the frontier, Unknown entries up
// to n are decided by trial division on the way so the frontier can reach n.
func (o *Oracle) reconcile(n int) {
	fill := n-o.frontier <= o.gapFill
	for i := o.frontier + 1; i < o.table.Len(); i++ {
		s := o.table.Status(i)
		if !s.Resolved() {
			if !fill || i > n || isqrt(i) > o.frontier {
				break
			}
			// every prime up to sqrt(i) is listed
			if s = o.trialDivide(i); s == Unknown {
				s = Prime
			}
			o.table.Resolve(i, s)
			o.stats.gapFills.Add(1)
		}
		if s == Prime {
			o.admit(i)
		}
		o.frontier = i
	}
}

// Frontier returns the largest index up to which everything is resolved.
func (o *Oracle) Frontier() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.frontier
}

// Primes returns a copy of the consecutive primes up to the frontier.
func (o *Oracle) Primes() []int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.primes)
}

// Status returns what the oracle knows about n without computing anything.
func (o *Oracle) Status(n int) Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.table.Status(n)
}

// Snapshot returns a consistent copy of the frontier, table length and primes list.
func (o *Oracle) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Snapshot{
		Frontier: o.frontier,
		TableLen: o.table.Len(),
		Primes:   slices.Clone(o.primes),
		Digest:   digestPrimes(o.primes),
	}
}

// Stats returns the work counters accumulated since New.
func (o *Oracle) Stats() Stats {
	return o.stats.snapshot()
}

func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for r+1 <= n/(r+1) {
		r++
	}
	return r
}
