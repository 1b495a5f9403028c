package skip

import (
	"context"
	"fmt"
)

// StashHandler records a stashed value.
type StashHandler func(name string, value any) error

// PopHandler returns the value to inject for a pop.
type PopHandler func(name string) (any, error)

// Dispatch runs body on in and resolves every command it emits. A body that
// finishes without emitting commands never reaches the handlers.
//
// Any error from the body or a handler aborts the routine and is returned
// as is.
func Dispatch[In, Out any](ctx context.Context, body Body[In, Out], in In,
	handleStash StashHandler, handlePop PopHandler) (Out, error) {

	var zero Out

	routine, err := body.Start(ctx, in)
	if err != nil {
		return zero, err
	}
	if routine == nil {
		return zero, fmt.Errorf("%w: body started no routine", ErrProtocolViolation)
	}
	defer routine.Close()

	step, err := routine.Next()
	for {
		if err != nil {
			return zero, err
		}
		if step.Done {
			return step.Output, nil
		}

		switch cmd := step.Command.(type) {
		case Stash:
			if hErr := handleStash(cmd.Name, cmd.Value); hErr != nil {
				return zero, hErr
			}
			step, err = routine.Next()
		case Pop:
			value, hErr := handlePop(cmd.Name)
			if hErr != nil {
				return zero, hErr
			}
			step, err = routine.Resume(value)
		default:
			return zero, fmt.Errorf("%w: %#v", ErrProtocolViolation, step.Command)
		}
	}
}
