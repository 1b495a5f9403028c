package solo

import (
	"context"

	"github.com/ib-77/skiprop/pkg/rop"
)

func Succeed[T any](input T) rop.Result[T] {
	return rop.Success(input)
}

// Try runs onTryExecute on a successful input. An error fails the unit, or
// cancels it when the error comes from a cancelled or expired context.
// Failures and cancellations pass through untouched.
func Try[In any, Out any](ctx context.Context, input rop.Result[In],
	onTryExecute func(ctx context.Context, r In) (Out, error)) rop.Result[Out] {

	if !input.IsSuccess() {
		return passOn[In, Out](input)
	}

	if err := ctx.Err(); err != nil {
		return rop.CancelFrom[In, Out](input, err)
	}

	out, err := onTryExecute(ctx, input.Result())
	if err != nil {
		if rop.IsCancellationError(err) {
			return rop.CancelFrom[In, Out](input, err)
		}
		return rop.FailFrom[In, Out](input, err)
	}

	return rop.Carry(input, out)
}

func DoubleTee[T any](ctx context.Context, input rop.Result[T],
	onSuccess func(ctx context.Context, r T),
	onError func(ctx context.Context, err error),
	onCancel func(ctx context.Context, err error)) rop.Result[T] {

	switch {
	case input.IsSuccess():
		if onSuccess != nil {
			onSuccess(ctx, input.Result())
		}
	case input.IsCancel():
		if onCancel != nil {
			onCancel(ctx, input.Err())
		}
	default:
		if onError != nil {
			onError(ctx, input.Err())
		}
	}

	return input
}

func Finally[In, Out any](ctx context.Context, input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) Out {

	if input.IsSuccess() {
		return onSuccess(ctx, input.Result())
	} else if input.IsCancel() {
		return onCancel(ctx, input.Err())
	} else {
		return onError(ctx, input.Err())
	}
}

func passOn[In, Out any](input rop.Result[In]) rop.Result[Out] {
	if input.IsCancel() {
		return rop.CancelFrom[In, Out](input, nil)
	}
	return rop.FailFrom[In, Out](input, input.Err())
}
