package actor

import (
	"cmp"
	"context"

	"github.com/on-the-ground/sieve_ive_go/shared/orderedbuffer"
	"go.uber.org/zap"
)

// Stream performs every query read from in and emits the results.
//
// Queries pass through an ascending window of the given size: once the window
// is full the smallest pending query is performed first, so bursts of
// unordered queries reach the oracle in sweeps. The output is closed after in
// is closed and the window has drained, or when ctx is done.
func (a *Actor) Stream(ctx context.Context, in <-chan int, window int) <-chan Result {
	if window <= 0 {
		window = 1
	}
	buf := orderedbuffer.New(window, cmp.Compare[int])
	out := make(chan Result, window)

	go func() {
		defer func() {
			if err := buf.Close(ctx); err != nil {
				a.logger.Debug("stream window flush interrupted", zap.Error(err))
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-in:
				if !ok {
					return
				}
				if err := buf.Insert(ctx, n); err != nil {
					return
				}
			}
		}
	}()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-buf.Source():
				if !ok {
					return
				}
				res := <-a.Perform(ctx, n)
				select {
				case out <- res:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
