package actor_test

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/on-the-ground/sieve_ive_go/actor"
	"github.com/on-the-ground/sieve_ive_go/log"
	"github.com/on-the-ground/sieve_ive_go/sieve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newActor(t *testing.T) (*actor.Actor, *sieve.Oracle) {
	t.Helper()
	o := sieve.New()
	a := actor.New(context.Background(), o, 8, log.NewTest())
	t.Cleanup(a.Close)
	return a, o
}

func TestActor_PerformMatchesOracle(t *testing.T) {
	a, _ := newActor(t)
	reference := sieve.New()

	for _, n := range []int{0, 1, 2, 91, 97, 104729, 7921} {
		res := <-a.Perform(context.Background(), n)
		require.NoError(t, res.Err)
		want, err := reference.IsPrime(n)
		require.NoError(t, err)
		assert.Equal(t, n, res.N)
		assert.Equal(t, want, res.Prime, "n=%d", n)
		assert.False(t, res.TimeSpan().End().Before(res.TimeSpan().Start()))
	}
}

func TestActor_IDsAreDistinct(t *testing.T) {
	a, _ := newActor(t)
	b, _ := newActor(t)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestActor_ResultChannelIsClosedAfterAnswer(t *testing.T) {
	a, _ := newActor(t)
	ch := a.Perform(context.Background(), 13)
	res, ok := <-ch
	require.True(t, ok)
	assert.True(t, res.Prime)
	_, ok = <-ch
	assert.False(t, ok)
}

func TestActor_ErrorsPassThrough(t *testing.T) {
	a, _ := newActor(t)
	_, err := a.IsPrime(context.Background(), -1)
	assert.ErrorIs(t, err, sieve.ErrInvalidArgument)
}

func TestActor_ConcurrentCallers(t *testing.T) {
	a, o := newActor(t)

	var g errgroup.Group
	for w := range 4 {
		g.Go(func() error {
			r := rand.New(rand.NewPCG(uint64(w), 5))
			for _, n := range r.Perm(3_000) {
				if _, err := a.IsPrime(context.Background(), n); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 2_999, o.Frontier())
}

func TestActor_ClosedActorRefusesQueries(t *testing.T) {
	o := sieve.New()
	a := actor.New(context.Background(), o, 1, nil)
	a.Close()
	a.Close()

	_, err := a.IsPrime(context.Background(), 7)
	assert.ErrorIs(t, err, actor.ErrClosed)
	assert.Equal(t, uint64(0), o.Stats().Queries)
}

func TestActor_ParentContextStopsActor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := actor.New(ctx, sieve.New(), 1, nil)
	cancel()
	a.Close()

	res := <-a.Perform(context.Background(), 7)
	assert.ErrorIs(t, res.Err, actor.ErrClosed)
}

func TestActor_CanceledCallerContext(t *testing.T) {
	a, _ := newActor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.IsPrime(ctx, 7)
	assert.ErrorIs(t, err, context.Canceled)
}

func feed(ns []int) <-chan int {
	in := make(chan int)
	go func() {
		defer close(in)
		for _, n := range ns {
			in <- n
		}
	}()
	return in
}

func TestActor_StreamOrdersWithinWindow(t *testing.T) {
	a, _ := newActor(t)
	queries := rand.New(rand.NewPCG(9, 9)).Perm(64)

	var got []int
	for res := range a.Stream(context.Background(), feed(queries), 64) {
		require.NoError(t, res.Err)
		got = append(got, res.N)
	}

	want := slices.Clone(queries)
	slices.Sort(want)
	assert.Equal(t, want, got)
}

func TestActor_StreamSmallWindowAnswersEverything(t *testing.T) {
	a, _ := newActor(t)
	queries := []int{97, 91, 13, 100, 2, 0, 7919, 12, 1}

	answers := map[int]bool{}
	for res := range a.Stream(context.Background(), feed(queries), 2) {
		require.NoError(t, res.Err)
		answers[res.N] = res.Prime
	}

	assert.Equal(t, map[int]bool{
		97: true, 91: false, 13: true, 100: false, 2: true,
		0: false, 7919: true, 12: false, 1: false,
	}, answers)
}

func TestActor_StreamStopsWithContext(t *testing.T) {
	a, _ := newActor(t)
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan int)

	out := a.Stream(ctx, in, 4)
	cancel()
	for range out {
	}
}
