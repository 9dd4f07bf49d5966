package actor

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeBounded is implemented by values that know when they were produced.
type TimeBounded interface {
	TimeSpan() timespan.TimeSpan
}

var _ TimeBounded = Result{}

// Result is the answer to one query.
type Result struct {
	N     int
	Prime bool
	Err   error
	// Span covers the time the query spent in the oracle.
	Span timespan.TimeSpan
}

func (r Result) TimeSpan() timespan.TimeSpan {
	return r.Span
}

func failed(n int, err error) Result {
	now := time.Now()
	return Result{N: n, Err: err, Span: timespan.BetweenTimes(now, now)}
}
