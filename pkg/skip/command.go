package skip

import "fmt"

// Command is emitted by a stage body and resolved by Dispatch. Only Stash
// and Pop are understood; any other implementation is a protocol violation.
type Command interface {
	CommandName() string
}

// Stash hands Value to a later stage under Name. A nil Value stashes "none".
type Stash struct {
	Name  string
	Value any
}

// Pop asks for the value a previous stage stashed under Name.
type Pop struct {
	Name string
}

func (s Stash) CommandName() string { return s.Name }

func (s Stash) String() string {
	return fmt.Sprintf("stash('%s')", s.Name)
}

func (p Pop) CommandName() string { return p.Name }

func (p Pop) String() string {
	return fmt.Sprintf("pop('%s')", p.Name)
}
