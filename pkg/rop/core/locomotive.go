package core

import (
	"context"
	"sync"

	"github.com/ib-77/skiprop/pkg/rop"
)

// CancellationHandlers receive the units a locomotive gives up on once ctx is
// done: OnCancelUnprocessed before engine ran, OnCancelProcessed when the
// outcome could no longer be sent.
type CancellationHandlers[In, Out any] struct {
	OnCancelUnprocessed func(ctx context.Context, unprocessed rop.Result[In])
	OnCancelProcessed   func(ctx context.Context, in rop.Result[In], processed rop.Result[Out])
}

// Locomotive pulls units from inputCh, runs engine on each and sends the
// outcome to outCh until inputCh is closed or ctx is done.
func Locomotive[In, Out any](ctx context.Context, inputCh <-chan rop.Result[In], outCh chan<- rop.Result[Out],
	engine func(ctx context.Context, input rop.Result[In]) rop.Result[Out],
	handlers CancellationHandlers[In, Out], wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-inputCh:
			if !ok {
				return
			}

			if ctx.Err() != nil {
				if handlers.OnCancelUnprocessed != nil {
					handlers.OnCancelUnprocessed(ctx, in)
				}
				return
			}

			pr := engine(ctx, in)

			select {
			case outCh <- pr:
			case <-ctx.Done():
				if handlers.OnCancelProcessed != nil {
					handlers.OnCancelProcessed(ctx, in, pr)
				}
				return
			}
		}
	}
}

// Turnout runs lines locomotives over inputCh and closes the returned
// channel once all of them stopped.
func Turnout[In, Out any](ctx context.Context, inputCh <-chan rop.Result[In],
	engine func(ctx context.Context, input rop.Result[In]) rop.Result[Out],
	handlers CancellationHandlers[In, Out],
	lines int) <-chan rop.Result[Out] {

	if lines < 1 {
		lines = 1
	}

	out := make(chan rop.Result[Out])
	wg := &sync.WaitGroup{}

	for range lines {
		wg.Add(1)
		go Locomotive(ctx, inputCh, out, engine, handlers, wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
