package skip

import (
	"context"
	"iter"
)

// Step is what a Routine reports after running to its next suspension
// point: either a pending Command or, when Done, the final Output.
type Step[Out any] struct {
	Command Command
	Output  Out
	Done    bool
}

// Routine is one running instance of a stage body.
//
// Next starts the routine or continues it after a Stash. Resume continues it
// after a Pop, injecting the popped value. Close releases a routine that
// will not be driven to completion; it is a no-op once the routine is done.
type Routine[Out any] interface {
	Next() (Step[Out], error)
	Resume(value any) (Step[Out], error)
	Close()
}

// Body creates a Routine for one input.
type Body[In, Out any] interface {
	Start(ctx context.Context, in In) (Routine[Out], error)
}

// BodyFunc adapts a function to Body.
type BodyFunc[In, Out any] func(ctx context.Context, in In) (Routine[Out], error)

func (f BodyFunc[In, Out]) Start(ctx context.Context, in In) (Routine[Out], error) {
	return f(ctx, in)
}

// Plain wraps a body that never stashes or pops.
func Plain[In, Out any](f func(ctx context.Context, in In) (Out, error)) Body[In, Out] {
	return BodyFunc[In, Out](func(ctx context.Context, in In) (Routine[Out], error) {
		out, err := f(ctx, in)
		if err != nil {
			return nil, err
		}
		return Returned(out), nil
	})
}

// Returned is a routine that is already done with out.
func Returned[Out any](out Out) Routine[Out] {
	return returned[Out]{out: out}
}

type returned[Out any] struct {
	out Out
}

func (r returned[Out]) Next() (Step[Out], error) {
	return Step[Out]{Output: r.out, Done: true}, nil
}

func (r returned[Out]) Resume(any) (Step[Out], error) {
	return r.Next()
}

func (r returned[Out]) Close() {}

// Yield is handed to a Coroutine body. Each call suspends the body until
// the dispatcher has handled the command. It must only be used from the
// goroutine running the body.
type Yield interface {
	Stash(name string, value any)
	Pop(name string) any
}

// Coroutine turns an ordinary function into a command-emitting body. The
// function and the dispatcher strictly alternate: the function runs until
// it calls Stash or Pop on y, then waits until the command is resolved.
func Coroutine[In, Out any](f func(ctx context.Context, in In, y Yield) (Out, error)) Body[In, Out] {
	return BodyFunc[In, Out](func(ctx context.Context, in In) (Routine[Out], error) {
		co := &coroutine[Out]{}
		co.next, co.stop = iter.Pull(func(yield func(Command) bool) {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(unwound); !ok {
						panic(r)
					}
				}
			}()
			co.out, co.err = f(ctx, in, &yielder[Out]{yield: yield, co: co})
		})
		return co, nil
	})
}

// unwound is raised inside a suspended body when its routine is closed.
type unwound struct{}

type coroutine[Out any] struct {
	next    func() (Command, bool)
	stop    func()
	resumed any
	out     Out
	err     error
}

func (c *coroutine[Out]) Next() (Step[Out], error) {
	return c.step()
}

func (c *coroutine[Out]) Resume(value any) (Step[Out], error) {
	c.resumed = value
	return c.step()
}

func (c *coroutine[Out]) Close() {
	c.stop()
}

func (c *coroutine[Out]) step() (Step[Out], error) {
	if cmd, ok := c.next(); ok {
		return Step[Out]{Command: cmd}, nil
	}
	c.stop()
	if c.err != nil {
		return Step[Out]{}, c.err
	}
	return Step[Out]{Output: c.out, Done: true}, nil
}

type yielder[Out any] struct {
	yield func(Command) bool
	co    *coroutine[Out]
}

func (y *yielder[Out]) Stash(name string, value any) {
	if !y.yield(Stash{Name: name, Value: value}) {
		panic(unwound{})
	}
}

func (y *yielder[Out]) Pop(name string) any {
	if !y.yield(Pop{Name: name}) {
		panic(unwound{})
	}
	v := y.co.resumed
	y.co.resumed = nil
	return v
}
