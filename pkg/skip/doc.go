// Package skip lets stages of a sequential pipeline hand named values to
// non-adjacent downstream stages without threading them through every stage
// in between.
//
// A stage declares up front which names it stashes and which it pops. Its
// body then emits Stash and Pop commands while computing its output, and
// the wrapping Stage routes those values through a Tracker scoped to the
// current execution unit.
//
// Key pieces:
// - Namespace: isolation token so the same name can be reused
// - Stash/Pop: commands emitted by a stage body
// - Body/Routine: a plain function or a command-emitting routine
// - Dispatch: drives a routine, resolving commands through handlers
// - Declare/Class/Stage: the declared contract and its instances
// - WithScope/ScopeFrom: bind the tracker and execution unit to a context
//
// Example:
//
//	layer1 := skip.Declare("layer1", func() skip.Body[int, int] {
//		return skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
//			y.Stash("1to3", in)
//			return in * 2, nil
//		})
//	}, skip.Stashes("1to3"))
//
//	layer3 := skip.Declare("layer3", func() skip.Body[int, int] {
//		return skip.Coroutine(func(ctx context.Context, in int, y skip.Yield) (int, error) {
//			v, _ := y.Pop("1to3").(int)
//			return in + v, nil
//		})
//	}, skip.Pops("1to3"))
package skip
