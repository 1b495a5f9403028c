package skip

import "github.com/google/uuid"

// Namespace scopes skip names so that the same name can be reused by
// unrelated parts of a pipeline. The zero value is the shared default
// namespace.
type Namespace struct {
	id uuid.UUID
}

// Default is the namespace every declared name belongs to until isolated.
var Default = Namespace{}

// NewNamespace allocates a fresh namespace distinct from every other one.
func NewNamespace() Namespace {
	return Namespace{id: uuid.New()}
}

func (ns Namespace) IsDefault() bool {
	return ns.id == uuid.Nil
}

func (ns Namespace) String() string {
	if ns.IsDefault() {
		return "default"
	}
	return ns.id.String()
}
