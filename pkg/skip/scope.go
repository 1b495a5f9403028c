package skip

import (
	"context"

	"github.com/google/uuid"
)

// Unit identifies one execution unit (for example one micro-batch) of the
// surrounding pipeline.
type Unit = uuid.UUID

// Tracker stores stashed values until the matching pop loads them. It is
// shared by every execution unit and must be safe for concurrent use.
//
// Load returns nil with no error when nothing was stashed for the triple;
// that is a legitimate popped value.
type Tracker interface {
	Load(ctx context.Context, unit Unit, ns Namespace, name string) (any, error)
	Save(ctx context.Context, unit Unit, ns Namespace, name string, value any) error
}

// Scope is the ambient state a Stage needs at invocation time.
type Scope struct {
	Tracker Tracker
	Unit    Unit
}

type scopeKey struct{}

// WithScope binds tracker and unit to ctx for every Stage invoked with it.
func WithScope(ctx context.Context, tracker Tracker, unit Unit) context.Context {
	return context.WithValue(ctx, scopeKey{}, Scope{Tracker: tracker, Unit: unit})
}

// ScopeFrom resolves the scope bound by WithScope.
func ScopeFrom(ctx context.Context) (Scope, error) {
	scope, ok := ctx.Value(scopeKey{}).(Scope)
	if !ok || scope.Tracker == nil {
		return Scope{}, ErrNoScope
	}
	return scope, nil
}
