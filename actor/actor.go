package actor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/sieve_ive_go/sieve"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// ErrClosed is returned for queries sent to a closed actor.
var ErrClosed = errors.New("actor is closed")

// Actor is a single-writer front for an Oracle: one goroutine owns the query
// loop and callers hand it queries through a channel, each with its own
// resume channel for the answer.
type Actor struct {
	id     string
	oracle *sieve.Oracle
	logger *zap.Logger
	queue  chan message

	// mu orders senders against shutdown; closed is set under the write lock.
	mu     sync.RWMutex
	closed bool

	cancel   context.CancelFunc
	stopping chan struct{}
	drained  chan struct{}
}

type message struct {
	n        int
	resumeCh chan Result
}

// New starts an actor serving oracle. It stops when ctx is done or Close is called.
func New(ctx context.Context, oracle *sieve.Oracle, bufferSize int, logger *zap.Logger) *Actor {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	id := uuid.New().String()
	a := &Actor{
		id:       id,
		oracle:   oracle,
		logger:   logger.With(zap.String("actor_id", id), zap.String("oracle_id", oracle.ID())),
		queue:    make(chan message, bufferSize),
		cancel:   cancel,
		stopping: make(chan struct{}),
		drained:  make(chan struct{}),
	}
	go a.loop(ctx)
	a.logger.Debug("actor started", zap.Int("buffer_size", bufferSize))
	return a
}

// ID identifies the actor in logs.
func (a *Actor) ID() string {
	return a.id
}

func (a *Actor) loop(ctx context.Context) {
	defer close(a.drained)
	for {
		select {
		case msg := <-a.queue:
			msg.resumeCh <- a.serve(msg.n)
			close(msg.resumeCh)
		case <-ctx.Done():
			a.shutdown()
			return
		}
	}
}

// shutdown releases blocked senders, refuses new ones and answers whatever is
// still queued with ErrClosed.
func (a *Actor) shutdown() {
	close(a.stopping)
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	pending := 0
	for {
		select {
		case msg := <-a.queue:
			msg.resumeCh <- failed(msg.n, ErrClosed)
			close(msg.resumeCh)
			pending++
		default:
			a.logger.Debug("actor stopped", zap.Int("pending", pending))
			return
		}
	}
}

func (a *Actor) serve(n int) Result {
	start := time.Now()
	ok, err := a.oracle.IsPrime(n)
	return Result{N: n, Prime: ok, Err: err, Span: timespan.BetweenTimes(start, time.Now())}
}

// Perform queues n and returns a channel that yields exactly one Result.
func (a *Actor) Perform(ctx context.Context, n int) <-chan Result {
	resumeCh := make(chan Result, 1)
	reply := func(err error) <-chan Result {
		resumeCh <- failed(n, err)
		close(resumeCh)
		return resumeCh
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return reply(ErrClosed)
	}

	select {
	case a.queue <- message{n: n, resumeCh: resumeCh}:
		return resumeCh
	case <-a.stopping:
		return reply(ErrClosed)
	case <-ctx.Done():
		return reply(ctx.Err())
	}
}

// IsPrime performs n and waits for the answer.
func (a *Actor) IsPrime(ctx context.Context, n int) (bool, error) {
	select {
	case res := <-a.Perform(ctx, n):
		return res.Prime, res.Err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Close stops the loop and waits for queued queries to be answered. Safe to call twice.
func (a *Actor) Close() {
	a.cancel()
	<-a.drained
}
