package rop

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one execution unit at some point of a pipeline.
// Its id is allocated once, by Success, Fail or Cancel, and carried by every
// later outcome of the same unit (see Carry, FailFrom, CancelFrom).
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	result    T
	err       error
	isSuccess bool
	isCancel  bool
	hasResult bool
}

func Success[T any](r T) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		result:    r,
		isSuccess: true,
		hasResult: true,
	}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		err:       err,
	}
}

func Cancel[T any](err error) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		err:       err,
		isCancel:  true,
	}
}

// Carry is a successful outcome r of the same unit as from.
func Carry[In, Out any](from Result[In], r Out) Result[Out] {
	return Result[Out]{
		id:        from.id,
		createdAt: from.createdAt,
		result:    r,
		isSuccess: true,
		hasResult: true,
	}
}

// FailFrom is a failed outcome of the same unit as from.
func FailFrom[In, Out any](from Result[In], err error) Result[Out] {
	return Result[Out]{
		id:        from.id,
		createdAt: from.createdAt,
		err:       err,
	}
}

// CancelFrom is a cancelled outcome of the same unit as from. A nil err
// keeps the error already carried by from.
func CancelFrom[In, Out any](from Result[In], err error) Result[Out] {
	if err == nil {
		err = from.err
	}
	return Result[Out]{
		id:        from.id,
		createdAt: from.createdAt,
		err:       err,
		isCancel:  true,
	}
}

func (r Result[T]) Result() T {
	return r.result
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[T]) IsFailure() bool {
	return !r.isSuccess && !r.isCancel && r.err != nil
}

func (r Result[T]) IsCancel() bool {
	return r.isCancel
}

func (r Result[T]) HasResult() bool {
	return r.hasResult
}

func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

// Id identifies the execution unit the result belongs to.
func (r Result[T]) Id() uuid.UUID {
	return r.id
}
