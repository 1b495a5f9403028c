package pipeline

import (
	"errors"
	"fmt"

	"github.com/ib-77/skiprop/pkg/skip"
)

var ErrInvalidLayout = errors.New("invalid skip layout")

// Verify checks that every pop of stages has an earlier stash in the same
// namespace, that no name is stashed or popped twice within a namespace,
// and that every stash is popped by a later stage. All problems are
// reported together.
func Verify[T any](stages []Stage[T]) error {
	var problems []error

	stashed := make(map[skip.Scoped]struct{})
	popped := make(map[skip.Scoped]struct{})
	var order []skip.Scoped

	for i, stage := range stages {
		s, ok := stage.(Skippable)
		if !ok {
			continue
		}
		label := fmt.Sprintf("stage %d (%s)", i, s.Name())
		contract := s.Contract()

		for _, name := range contract.Stashable() {
			if contract.CanPop(name) {
				problems = append(problems,
					fmt.Errorf("%s declares '%s' both as stashable and as poppable", label, name))
			}
		}

		for _, sc := range s.Stashable() {
			if contract.CanPop(sc.Name) {
				continue
			}
			if _, dup := stashed[sc]; dup {
				problems = append(problems,
					fmt.Errorf("%s stashes '%s' again without isolating it by namespace", label, sc.Name))
				continue
			}
			stashed[sc] = struct{}{}
			order = append(order, sc)
		}

		for _, sc := range s.Poppable() {
			if contract.CanStash(sc.Name) {
				continue
			}
			if _, dup := popped[sc]; dup {
				problems = append(problems,
					fmt.Errorf("%s pops '%s' again without isolating it by namespace", label, sc.Name))
				continue
			}
			if _, ok := stashed[sc]; !ok {
				problems = append(problems,
					fmt.Errorf("%s pops '%s' but no earlier stage stashes it", label, sc.Name))
			}
			popped[sc] = struct{}{}
		}
	}

	for _, sc := range order {
		if _, ok := popped[sc]; !ok {
			problems = append(problems,
				fmt.Errorf("'%s' is stashed in namespace %s but never popped", sc.Name, sc.Namespace))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidLayout, errors.Join(problems...))
}
