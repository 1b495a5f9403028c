package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ib-77/skiprop/pkg/rop"
	"github.com/ib-77/skiprop/pkg/rop/core"
	"github.com/ib-77/skiprop/pkg/rop/solo"
	"github.com/ib-77/skiprop/pkg/skip"
	"github.com/ib-77/skiprop/pkg/skip/tracker"
)

const defaultWorkers = 1

type options struct {
	logger  *slog.Logger
	workers int
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWorkers sets how many units RunAll processes at once unless the
// context carries core.WithWorkerOptions.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Pipeline runs its stages in order for every execution unit.
type Pipeline[T any] struct {
	stages  []Stage[T]
	tracker skip.Tracker
	workers int
	logger  *slog.Logger
}

// New verifies the skip layout of stages and builds a pipeline routing
// skip values through t.
func New[T any](t skip.Tracker, stages []Stage[T], opts ...Option) (*Pipeline[T], error) {
	if t == nil {
		return nil, errors.New("pipeline needs a tracker")
	}
	if err := Verify(stages); err != nil {
		return nil, err
	}

	o := &options{workers: defaultWorkers}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.workers < 1 {
		o.workers = defaultWorkers
	}

	return &Pipeline[T]{
		stages:  append([]Stage[T](nil), stages...),
		tracker: t,
		workers: o.workers,
		logger:  o.logger,
	}, nil
}

func (p *Pipeline[T]) Len() int {
	return len(p.stages)
}

// Run pushes in through every stage as a new execution unit.
func (p *Pipeline[T]) Run(ctx context.Context, in T) rop.Result[T] {
	return p.run(ctx, solo.Succeed(in))
}

// RunAll runs every input as its own execution unit and returns the
// outcomes in input order. Inputs not processed before ctx is done come
// back cancelled.
func (p *Pipeline[T]) RunAll(ctx context.Context, inputs []T) []rop.Result[T] {
	units := make([]rop.Result[T], len(inputs))
	for i, in := range inputs {
		units[i] = solo.Succeed(in)
	}

	// Outcomes by unit. A unit a worker could not send after ctx was done
	// keeps its outcome: its stages ran and its skip values are released.
	var mu sync.Mutex
	settled := make(map[uuid.UUID]rop.Result[T])
	settle := func(r rop.Result[T]) {
		mu.Lock()
		settled[r.Id()] = r
		mu.Unlock()
	}

	workers := core.GetWorkerMaxCount(ctx, p.workers)
	out := core.Turnout(ctx,
		core.ToChanResults(ctx, core.ToChanHandlers[T]{}, units...),
		p.run,
		core.CancellationHandlers[T, T]{
			OnCancelUnprocessed: func(ctx context.Context, unprocessed rop.Result[T]) {
				settle(rop.CancelFrom[T, T](unprocessed, ctx.Err()))
			},
			OnCancelProcessed: func(ctx context.Context, _ rop.Result[T], processed rop.Result[T]) {
				settle(processed)
			},
		},
		workers)

	for _, r := range core.Drain(out) {
		settle(r)
	}

	mu.Lock()
	defer mu.Unlock()

	results := make([]rop.Result[T], len(inputs))
	for i, unit := range units {
		if r, ok := settled[unit.Id()]; ok {
			results[i] = r
			continue
		}
		results[i] = rop.CancelFrom[T, T](unit, ctx.Err())
	}
	return results
}

func (p *Pipeline[T]) run(ctx context.Context, unit rop.Result[T]) rop.Result[T] {
	scoped := skip.WithScope(ctx, p.tracker, unit.Id())
	logger := p.logger.With(slog.String("unit", unit.Id().String()))

	res := unit
	for i, stage := range p.stages {
		res = solo.Try(scoped, res, func(ctx context.Context, in T) (T, error) {
			out, err := stage.Invoke(ctx, in)
			if err != nil {
				return out, fmt.Errorf("stage %d: %w", i, err)
			}
			return out, nil
		})
		if !res.IsSuccess() {
			break
		}
	}

	if r, ok := p.tracker.(tracker.Releaser); ok {
		if err := r.Release(context.WithoutCancel(ctx), unit.Id()); err != nil {
			logger.Warn("failed to release skip values", slog.String("error", err.Error()))
		}
	}

	return solo.DoubleTee(ctx, res,
		func(ctx context.Context, _ T) {
			logger.Debug("unit completed")
		},
		func(ctx context.Context, err error) {
			logger.Warn("unit failed", slog.String("error", err.Error()))
		},
		func(ctx context.Context, err error) {
			logger.Debug("unit cancelled", slog.Any("error", err))
		})
}
