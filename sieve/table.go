package sieve

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Status is the per-index knowledge of the table.
type Status uint8

const (
	Unknown Status = iota
	Composite
	Prime
)

func (s Status) String() string {
	switch s {
	case Composite:
		return "composite"
	case Prime:
		return "prime"
	default:
		return "unknown"
	}
}

// Resolved reports whether s is Prime or Composite.
func (s Status) Resolved() bool {
	return s != Unknown
}

// Table is a growable tri-state knowledge table.
//
// An index is Unknown while its resolved bit is clear. Once resolved, the prime
// bit tells Prime from Composite. Entries are write-once: resolving an index
// to the opposite status panics.
//
// Table is not safe for concurrent use; the Oracle guards it.
type Table struct {
	resolved *bitset.BitSet
	prime    *bitset.BitSet
	size     int
}

// NewTable returns a table seeded with 0 and 1 composite and 2 prime.
func NewTable(capacity int) *Table {
	if capacity < 3 {
		capacity = 3
	}
	t := &Table{
		resolved: bitset.New(uint(capacity)),
		prime:    bitset.New(uint(capacity)),
		size:     3,
	}
	t.resolved.Set(0).Set(1).Set(2)
	t.prime.Set(2)
	return t
}

// Len returns the number of indices the table covers.
func (t *Table) Len() int {
	return t.size
}

// Grow extends the table with Unknown entries up to and including n.
func (t *Table) Grow(n int) {
	if n < t.size {
		return
	}
	t.size = n + 1
}

// Status returns the knowledge held for i. Indices beyond the table are Unknown.
func (t *Table) Status(i int) Status {
	if i < 0 || i >= t.size || !t.resolved.Test(uint(i)) {
		return Unknown
	}
	if t.prime.Test(uint(i)) {
		return Prime
	}
	return Composite
}

// Resolve records s for i and reports whether i was Unknown before.
func (t *Table) Resolve(i int, s Status) bool {
	if i < 0 || i >= t.size {
		panic(fmt.Sprintf("resolve: index %d outside table of length %d", i, t.size))
	}
	if !s.Resolved() {
		panic("resolve: cannot set an index back to unknown")
	}
	cur := t.Status(i)
	if cur == s {
		return false
	}
	if cur.Resolved() {
		panic(fmt.Sprintf("resolve: index %d already %s, refusing %s", i, cur, s))
	}
	t.resolved.Set(uint(i))
	if s == Prime {
		t.prime.Set(uint(i))
	}
	return true
}

// Eliminate marks every multiple of p in [from, to] composite and returns how
// many entries changed from Unknown.
func (t *Table) Eliminate(p, from, to int) int {
	if to >= t.size {
		to = t.size - 1
	}
	if p < 2 || to < 0 || p > to/p {
		return 0
	}
	start := p * p
	if from > start {
		start = from + (p-from%p)%p
	}
	marked := 0
	for m := start; m <= to; m += p {
		if t.Resolve(m, Composite) {
			marked++
		}
		if m > to-p {
			break
		}
	}
	return marked
}
