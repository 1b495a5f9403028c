package skip

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProtocolViolation = errors.New("not a skip command")
	ErrUndeclaredName    = errors.New("undeclared skip name")
	ErrMissingPop        = errors.New("skip name already popped")
	ErrIncompleteStash   = errors.New("must be stashed but have not")
	ErrIncompletePop     = errors.New("must be popped but have not")
	ErrNoScope           = errors.New("no skip scope bound to context")
	ErrIsolatedAfterUse  = errors.New("stage already invoked, namespaces are frozen")
)

// NameError reports a contract violation together with every offending name.
// errors.Is matches it against its Kind.
type NameError struct {
	Kind  error
	Stage string
	Names []string
}

func newNameError(kind error, stage string, names ...string) *NameError {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &NameError{Kind: kind, Stage: stage, Names: sorted}
}

func (e *NameError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = "'" + n + "'"
	}
	return fmt.Sprintf("%s: %s %s", e.Stage, strings.Join(quoted, ", "), e.Kind.Error())
}

func (e *NameError) Unwrap() error {
	return e.Kind
}
