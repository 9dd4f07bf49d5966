package sieve

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Snapshot describes the contiguous knowledge an oracle holds.
// Two oracles with the same frontier hold the same primes and share a Digest.
type Snapshot struct {
	Frontier int
	TableLen int
	Primes   []int
	Digest   uint64
}

func digestPrimes(primes []int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, p := range primes {
		binary.LittleEndian.PutUint64(buf[:], uint64(p))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
