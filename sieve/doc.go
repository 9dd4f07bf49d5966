// Package sieve provides a memoizing primality oracle.
//
// An Oracle never precomputes a fixed bound. Each query pays only for what it
// needs: a cached answer is returned straight from the knowledge table, an
// uncached one is trial-divided by the primes already known, and only when
// those are not enough does the oracle sieve further, up to sqrt(n).
//
// Everything learned along the way is kept:
//   - a tri-state table (Unknown, Prime, Composite), write-once per index,
//   - a frontier below which every index is resolved,
//   - the consecutive primes up to that frontier.
//
// Queries may arrive in any order. The frontier is always recomputed by
// scanning forward from where it stands, so out-of-order queries never leave
// it short of what the table already knows.
//
// Example:
//
//	o := sieve.New(sieve.WithLogger(logger))
//	ok, err := o.IsPrime(104729)
//
// An Oracle is safe for concurrent use.
package sieve
