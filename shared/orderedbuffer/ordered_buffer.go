package orderedbuffer

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
)

var ErrClosedBuffer = errors.New("buffer is closed")

type CompareFunc[T any] func(a, b T) int

// Buffer keeps up to size values in ascending order. Inserting past capacity
// evicts the smallest value to the sink; Close flushes the rest in order.
//
// Insert and Close must be called from a single producer goroutine.
type Buffer[T any] struct {
	data    []T
	size    int
	compare CompareFunc[T]

	sink   chan T
	closed atomic.Bool
}

func New[T any](size int, cmp CompareFunc[T]) *Buffer[T] {
	if size <= 0 {
		size = 1
	}
	return &Buffer[T]{
		data:    make([]T, 0, size+1),
		size:    size,
		compare: cmp,
		sink:    make(chan T, size),
	}
}

func (b *Buffer[T]) Insert(ctx context.Context, val T) error {
	if b.closed.Load() {
		return ErrClosedBuffer
	}

	idx, _ := slices.BinarySearchFunc(b.data, val, b.compare)
	b.data = slices.Insert(b.data, idx, val)
	if len(b.data) <= b.size {
		return nil
	}

	smallest := b.data[0]
	b.data = slices.Delete(b.data, 0, 1)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case b.sink <- smallest:
		return nil
	}
}

func (b *Buffer[T]) Len() int {
	return len(b.data)
}

func (b *Buffer[T]) Source() <-chan T {
	return b.sink
}

// Close flushes the buffered values ascending and closes the sink.
// The sink is closed even when ctx ends the flush early.
func (b *Buffer[T]) Close(ctx context.Context) error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	defer close(b.sink)

	for i, v := range b.data {
		select {
		case <-ctx.Done():
			b.data = b.data[i:]
			return ctx.Err()
		case b.sink <- v:
		}
	}
	b.data = b.data[:0]
	return nil
}
