package core

import (
	"context"

	"github.com/ib-77/skiprop/pkg/rop"
)

type ToChanHandlers[T any] struct {
	OnBreak func(ctx context.Context, rest []rop.Result[T])
}

// ToChanResults feeds values into a channel, keeping their unit ids. On
// cancellation the values not yet sent go to handlers.OnBreak.
func ToChanResults[T any](ctx context.Context, handlers ToChanHandlers[T], values ...rop.Result[T]) <-chan rop.Result[T] {
	in := make(chan rop.Result[T])

	go func() {
		defer close(in)

		for i, v := range values {
			select {
			case in <- v:
			case <-ctx.Done():
				if handlers.OnBreak != nil {
					handlers.OnBreak(ctx, values[i:])
				}
				return
			}
		}
	}()

	return in
}

// Drain collects everything sent on out until it is closed.
func Drain[T any](out <-chan T) []T {
	res := make([]T, 0)
	for v := range out {
		res = append(res, v)
	}
	return res
}
