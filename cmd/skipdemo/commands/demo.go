package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ib-77/skiprop/internal/config"
	"github.com/ib-77/skiprop/pkg/pipeline"
	"github.com/ib-77/skiprop/pkg/skip"
	"github.com/ib-77/skiprop/pkg/skip/tracker"
)

const skipName = "skip"

// newTracker builds the configured tracker and a function releasing it.
func newTracker(ctx context.Context, cfg *config.Config) (skip.Tracker, func() error, error) {
	if cfg.Tracker.Backend != config.BackendRedis {
		return tracker.NewMemory(), func() error { return nil }, nil
	}

	rc := cfg.Tracker.Redis
	rdb := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})

	t, err := tracker.NewRedis(rdb, rc.Prefix,
		tracker.WithTTL(rc.TTL),
		tracker.WithCodec(tracker.JSONOf[int]()))
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	if err := t.Ping(ctx); err != nil {
		_ = t.Close()
		return nil, nil, fmt.Errorf("redis not reachable at %s: %w", rc.Addr, err)
	}

	return t, t.Close, nil
}

// demoStages builds encoder, encoder, middle, decoder, decoder. With
// isolate the two encoder/decoder pairs use separate namespaces; without
// it they collide on the same skip name.
func demoStages(logger *slog.Logger, isolate bool) []pipeline.Stage[int] {
	encoder := skip.Declare("encoder", func() skip.Body[int, int] {
		return skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
			y.Stash(skipName, in)
			return in * 2, nil
		})
	}, skip.Stashes(skipName), skip.WithLogger(logger))

	middle := skip.Declare("middle", func() skip.Body[int, int] {
		return skip.Plain(func(ctx context.Context, in int) (int, error) {
			return in * 10, nil
		})
	}, skip.WithLogger(logger))

	decoder := skip.Declare("decoder", func() skip.Body[int, int] {
		return skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
			v, _ := y.Pop(skipName).(int)
			return in + v, nil
		})
	}, skip.Pops(skipName), skip.WithLogger(logger))

	enc1, enc2 := encoder.New(), encoder.New()
	dec2, dec1 := decoder.New(), decoder.New()

	if isolate {
		outer, inner := skip.NewNamespace(), skip.NewNamespace()
		enc1.MustIsolate(outer)
		dec1.MustIsolate(outer)
		enc2.MustIsolate(inner)
		dec2.MustIsolate(inner)
	}

	return []pipeline.Stage[int]{enc1, enc2, middle.New(), dec2, dec1}
}
