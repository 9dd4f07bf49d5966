package sieve_test

import (
	"math"
	"testing"

	"github.com/on-the-ground/sieve_ive_go/sieve"
	"github.com/stretchr/testify/assert"
)

func TestTable_Seeded(t *testing.T) {
	tbl := sieve.NewTable(0)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, sieve.Composite, tbl.Status(0))
	assert.Equal(t, sieve.Composite, tbl.Status(1))
	assert.Equal(t, sieve.Prime, tbl.Status(2))
	assert.Equal(t, sieve.Unknown, tbl.Status(3))
}

func TestTable_GrowNeverShrinks(t *testing.T) {
	tbl := sieve.NewTable(4)
	tbl.Grow(100)
	assert.Equal(t, 101, tbl.Len())
	tbl.Grow(10)
	assert.Equal(t, 101, tbl.Len())
	assert.Equal(t, sieve.Unknown, tbl.Status(100))
	assert.Equal(t, sieve.Prime, tbl.Status(2))
}

func TestTable_ResolveIsWriteOnce(t *testing.T) {
	tbl := sieve.NewTable(8)
	tbl.Grow(10)

	assert.True(t, tbl.Resolve(9, sieve.Composite))
	assert.False(t, tbl.Resolve(9, sieve.Composite))
	assert.Equal(t, sieve.Composite, tbl.Status(9))

	assert.Panics(t, func() { tbl.Resolve(9, sieve.Prime) })
	assert.Panics(t, func() { tbl.Resolve(2, sieve.Composite) })
	assert.Panics(t, func() { tbl.Resolve(5, sieve.Unknown) })
	assert.Panics(t, func() { tbl.Resolve(11, sieve.Prime) })
}

func TestTable_Eliminate(t *testing.T) {
	tbl := sieve.NewTable(0)
	tbl.Grow(30)

	// 9, 12, ..., 30
	assert.Equal(t, 8, tbl.Eliminate(3, 0, 30))
	assert.Equal(t, 0, tbl.Eliminate(3, 0, 30))
	assert.Equal(t, sieve.Composite, tbl.Status(27))
	assert.Equal(t, sieve.Unknown, tbl.Status(6))

	// first multiple of 5 at or above 26 is 30, past the range
	assert.Equal(t, 0, tbl.Eliminate(5, 26, 29))

	// clipped to the table
	assert.Equal(t, 1, tbl.Eliminate(5, 0, 1000))
	assert.Equal(t, sieve.Composite, tbl.Status(25))
}

func TestTable_EliminateAtIntLimits(t *testing.T) {
	tbl := sieve.NewTable(0)
	tbl.Grow(sieve.MaxIndexLimit)
	assert.Equal(t, math.MaxInt, tbl.Len())

	// p*p does not fit below the end of the table
	assert.Equal(t, 0, tbl.Eliminate(math.MaxInt/2, 0, math.MaxInt))
	assert.Equal(t, sieve.Unknown, tbl.Status(sieve.MaxIndexLimit))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "unknown", sieve.Unknown.String())
	assert.Equal(t, "prime", sieve.Prime.String())
	assert.Equal(t, "composite", sieve.Composite.String())
	assert.False(t, sieve.Unknown.Resolved())
	assert.True(t, sieve.Composite.Resolved())
}
