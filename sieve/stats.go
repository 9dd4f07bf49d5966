package sieve

import "sync/atomic"

// Stats is a point-in-time copy of an oracle's work counters.
type Stats struct {
	Queries        uint64
	CacheHits      uint64
	Rejected       uint64
	TrialDivisions uint64
	SieveSteps     uint64
	Eliminations   uint64
	GapFills       uint64
}

type counters struct {
	queries        atomic.Uint64
	cacheHits      atomic.Uint64
	rejected       atomic.Uint64
	trialDivisions atomic.Uint64
	sieveSteps     atomic.Uint64
	eliminations   atomic.Uint64
	gapFills       atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Queries:        c.queries.Load(),
		CacheHits:      c.cacheHits.Load(),
		Rejected:       c.rejected.Load(),
		TrialDivisions: c.trialDivisions.Load(),
		SieveSteps:     c.sieveSteps.Load(),
		Eliminations:   c.eliminations.Load(),
		GapFills:       c.gapFills.Load(),
	}
}
