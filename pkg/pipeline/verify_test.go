package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/skiprop/pkg/skip"
)

func stashClass(name string) *skip.Class[int, int] {
	return skip.Declare("stash", func() skip.Body[int, int] {
		return skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
			y.Stash(name, in)
			return in, nil
		})
	}, skip.Stashes(name))
}

func popClass(name string) *skip.Class[int, int] {
	return skip.Declare("pop", func() skip.Body[int, int] {
		return skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
			v, _ := y.Pop(name).(int)
			return in + v, nil
		})
	}, skip.Pops(name))
}

var double = Func[int](func(ctx context.Context, in int) (int, error) {
	return in * 2, nil
})

func TestVerify_ValidLayouts(t *testing.T) {
	t.Parallel()

	ns1, ns2 := skip.NewNamespace(), skip.NewNamespace()

	layouts := map[string][]Stage[int]{
		"no skippable stages": {double, double},
		"simple":              {stashClass("v").New(), double, popClass("v").New()},
		"nested namespaces": {
			stashClass("v").New().MustIsolate(ns1),
			stashClass("v").New().MustIsolate(ns2),
			popClass("v").New().MustIsolate(ns2),
			popClass("v").New().MustIsolate(ns1),
		},
		"same stage stashes and pops after it": {
			stashClass("a").New(),
			skip.Declare("relay", func() skip.Body[int, int] {
				return skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
					y.Stash("b", y.Pop("a"))
					return in, nil
				})
			}, skip.Pops("a"), skip.Stashes("b")).New(),
			popClass("b").New(),
		},
	}

	for name, stages := range layouts {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, Verify(stages))
		})
	}
}

func TestVerify_Problems(t *testing.T) {
	t.Parallel()

	both := skip.Declare("both", func() skip.Body[int, int] {
		return skip.Plain(func(ctx context.Context, in int) (int, error) { return in, nil })
	}, skip.Stashes("x"), skip.Pops("x"))

	cases := map[string]struct {
		stages []Stage[int]
		want   []string
	}{
		"pop before stash": {
			stages: []Stage[int]{popClass("v").New(), stashClass("v").New()},
			want: []string{
				"stage 0 (pop) pops 'v' but no earlier stage stashes it",
				"'v' is stashed in namespace default but never popped",
			},
		},
		"stash twice without isolation": {
			stages: []Stage[int]{stashClass("v").New(), stashClass("v").New(), popClass("v").New()},
			want:   []string{"stage 1 (stash) stashes 'v' again without isolating it by namespace"},
		},
		"pop twice without isolation": {
			stages: []Stage[int]{stashClass("v").New(), popClass("v").New(), popClass("v").New()},
			want:   []string{"stage 2 (pop) pops 'v' again without isolating it by namespace"},
		},
		"namespace mismatch": {
			stages: []Stage[int]{stashClass("v").New().MustIsolate(skip.NewNamespace()), popClass("v").New()},
			want: []string{
				"stage 1 (pop) pops 'v' but no earlier stage stashes it",
				"is stashed in namespace",
			},
		},
		"stash and pop the same name": {
			stages: []Stage[int]{both.New()},
			want:   []string{"stage 0 (both) declares 'x' both as stashable and as poppable"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := Verify(tc.stages)
			require.ErrorIs(t, err, ErrInvalidLayout)
			for _, w := range tc.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}
