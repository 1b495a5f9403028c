package pipeline

import (
	"context"

	"github.com/ib-77/skiprop/pkg/skip"
)

// Stage is one step of a pipeline. *skip.Stage[T, T] satisfies it.
type Stage[T any] interface {
	Invoke(ctx context.Context, in T) (T, error)
}

// Func adapts a plain function to Stage.
type Func[T any] func(ctx context.Context, in T) (T, error)

func (f Func[T]) Invoke(ctx context.Context, in T) (T, error) {
	return f(ctx, in)
}

// Skippable is the part of a skip.Stage that Verify inspects.
type Skippable interface {
	Name() string
	Contract() skip.Contract
	Stashable() []skip.Scoped
	Poppable() []skip.Scoped
}
