package skip_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/skiprop/pkg/skip"
)

func noStash(t *testing.T) skip.StashHandler {
	return func(name string, value any) error {
		t.Fatalf("stash handler called for %q", name)
		return nil
	}
}

func noPop(t *testing.T) skip.PopHandler {
	return func(name string) (any, error) {
		t.Fatalf("pop handler called for %q", name)
		return nil, nil
	}
}

// scripted is a hand-written routine emitting a fixed list of commands.
type scripted struct {
	commands []skip.Command
	resumed  []any
	pos      int
	closed   bool
}

func (s *scripted) Next() (skip.Step[string], error) {
	if s.pos == len(s.commands) {
		return skip.Step[string]{Output: "done", Done: true}, nil
	}
	cmd := s.commands[s.pos]
	s.pos++
	return skip.Step[string]{Command: cmd}, nil
}

func (s *scripted) Resume(value any) (skip.Step[string], error) {
	s.resumed = append(s.resumed, value)
	return s.Next()
}

func (s *scripted) Close() { s.closed = true }

func scriptedBody(r *scripted) skip.Body[int, string] {
	return skip.BodyFunc[int, string](func(ctx context.Context, in int) (skip.Routine[string], error) {
		return r, nil
	})
}

type bogus struct{}

func (bogus) CommandName() string { return "bogus" }

func TestDispatch_PlainBodyBypassesHandlers(t *testing.T) {
	t.Parallel()

	body := skip.Plain(func(ctx context.Context, in int) (int, error) {
		return in * 3, nil
	})

	out, err := skip.Dispatch(context.Background(), body, 5, noStash(t), noPop(t))
	require.NoError(t, err)
	assert.Equal(t, 15, out)
}

func TestDispatch_PlainBodyError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	body := skip.Plain(func(ctx context.Context, in int) (int, error) {
		return 0, boom
	})

	_, err := skip.Dispatch(context.Background(), body, 5, noStash(t), noPop(t))
	assert.ErrorIs(t, err, boom)
}

func TestDispatch_CoroutineExchangesCommands(t *testing.T) {
	t.Parallel()

	body := skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
		y.Stash("a", in)
		y.Stash("b", nil)
		v := y.Pop("x").(int)
		w := y.Pop("y")
		assert.Nil(t, w)
		return in + v, nil
	})

	var trace []string
	stashed := map[string]any{}

	out, err := skip.Dispatch(context.Background(), body, 2,
		func(name string, value any) error {
			trace = append(trace, "stash "+name)
			stashed[name] = value
			return nil
		},
		func(name string) (any, error) {
			trace = append(trace, "pop "+name)
			if name == "x" {
				return 40, nil
			}
			return nil, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, []string{"stash a", "stash b", "pop x", "pop y"}, trace)
	assert.Equal(t, map[string]any{"a": 2, "b": nil}, stashed)
}

func TestDispatch_CoroutineWithoutCommands(t *testing.T) {
	t.Parallel()

	body := skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (string, error) {
		return "plain", nil
	})

	out, err := skip.Dispatch(context.Background(), body, 1, noStash(t), noPop(t))
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}

func TestDispatch_CoroutineError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	body := skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
		y.Stash("a", in)
		return 0, boom
	})

	_, err := skip.Dispatch(context.Background(), body, 1,
		func(string, any) error { return nil }, noPop(t))
	assert.ErrorIs(t, err, boom)
}

func TestDispatch_HandlerErrorUnwindsCoroutine(t *testing.T) {
	t.Parallel()

	rejected := errors.New("rejected")
	unwound := false
	reachedEnd := false

	body := skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
		defer func() { unwound = true }()
		y.Stash("a", in)
		reachedEnd = true
		return in, nil
	})

	_, err := skip.Dispatch(context.Background(), body, 1,
		func(string, any) error { return rejected }, noPop(t))

	assert.ErrorIs(t, err, rejected)
	assert.True(t, unwound)
	assert.False(t, reachedEnd)
}

func TestDispatch_ScriptedRoutine(t *testing.T) {
	t.Parallel()

	r := &scripted{commands: []skip.Command{
		skip.Pop{Name: "x"},
		skip.Stash{Name: "y", Value: 1},
		skip.Pop{Name: "z"},
	}}

	out, err := skip.Dispatch(context.Background(), scriptedBody(r), 0,
		func(string, any) error { return nil },
		func(name string) (any, error) { return name + "!", nil })

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, []any{"x!", "z!"}, r.resumed)
	assert.True(t, r.closed)
}

func TestDispatch_ProtocolViolation(t *testing.T) {
	t.Parallel()

	cases := map[string]skip.Command{
		"foreign command": bogus{},
		"nil command":     nil,
		"stash pointer":   &skip.Stash{Name: "a"},
	}

	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			r := &scripted{commands: []skip.Command{cmd}}

			_, err := skip.Dispatch(context.Background(), scriptedBody(r), 0, noStash(t), noPop(t))
			assert.ErrorIs(t, err, skip.ErrProtocolViolation)
			assert.True(t, r.closed)
		})
	}
}

func TestDispatch_BodyWithoutRoutine(t *testing.T) {
	t.Parallel()

	body := skip.BodyFunc[int, string](func(ctx context.Context, in int) (skip.Routine[string], error) {
		return nil, nil
	})

	out, err := skip.Dispatch(context.Background(), body, 0, noStash(t), noPop(t))
	assert.ErrorIs(t, err, skip.ErrProtocolViolation)
	assert.Empty(t, out)
}

func TestCommands_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stash('a')", skip.Stash{Name: "a", Value: 1}.String())
	assert.Equal(t, "pop('b')", skip.Pop{Name: "b"}.String())
	assert.Equal(t, "a", skip.Stash{Name: "a"}.CommandName())
}

func TestNamespace(t *testing.T) {
	t.Parallel()

	ns1, ns2 := skip.NewNamespace(), skip.NewNamespace()
	assert.NotEqual(t, ns1, ns2)
	assert.Equal(t, ns1, ns1)
	assert.True(t, skip.Default.IsDefault())
	assert.False(t, ns1.IsDefault())
	assert.Equal(t, "default", skip.Default.String())
}
