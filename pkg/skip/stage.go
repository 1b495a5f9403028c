package skip

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Contract is the set of names a Class declares. It is shared by every
// instance of the class and never changes after Declare.
type Contract struct {
	stashable map[string]struct{}
	poppable  map[string]struct{}
}

func (c Contract) CanStash(name string) bool {
	_, ok := c.stashable[name]
	return ok
}

func (c Contract) CanPop(name string) bool {
	_, ok := c.poppable[name]
	return ok
}

// Stashable returns the declared stashable names in sorted order.
func (c Contract) Stashable() []string {
	return sortedKeys(c.stashable)
}

// Poppable returns the declared poppable names in sorted order.
func (c Contract) Poppable() []string {
	return sortedKeys(c.poppable)
}

func (c Contract) declares(name string) bool {
	return c.CanStash(name) || c.CanPop(name)
}

type declaration struct {
	stash  []string
	pop    []string
	logger *slog.Logger
}

// DeclareOption configures Declare.
type DeclareOption func(*declaration)

// Stashes declares names the stage must stash on every invocation.
func Stashes(names ...string) DeclareOption {
	return func(d *declaration) {
		d.stash = append(d.stash, names...)
	}
}

// Pops declares names the stage must pop on every invocation.
func Pops(names ...string) DeclareOption {
	return func(d *declaration) {
		d.pop = append(d.pop, names...)
	}
}

// WithLogger sets the logger stage invocations report to.
func WithLogger(logger *slog.Logger) DeclareOption {
	return func(d *declaration) {
		d.logger = logger
	}
}

// Class is a declared skippable stage type. Use New to create instances.
type Class[In, Out any] struct {
	name     string
	contract Contract
	newBody  func() Body[In, Out]
	logger   *slog.Logger
}

// Declare attaches a stash/pop contract to a body constructor.
func Declare[In, Out any](name string, newBody func() Body[In, Out], opts ...DeclareOption) *Class[In, Out] {
	d := &declaration{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}

	return &Class[In, Out]{
		name: name,
		contract: Contract{
			stashable: toSet(d.stash),
			poppable:  toSet(d.pop),
		},
		newBody: newBody,
		logger:  d.logger,
	}
}

func (c *Class[In, Out]) Name() string {
	return c.name
}

func (c *Class[In, Out]) Contract() Contract {
	return c.contract
}

// New creates an instance with its own body and every name in Default.
func (c *Class[In, Out]) New() *Stage[In, Out] {
	return &Stage[In, Out]{
		class:      c,
		body:       c.newBody(),
		namespaces: make(map[string]Namespace),
	}
}

// Scoped is a skip name qualified by the namespace it is routed through.
type Scoped struct {
	Namespace Namespace
	Name      string
}

// Stage is an instance of a Class. From the outside it is a plain
// input -> output stage; commands never leave Invoke.
type Stage[In, Out any] struct {
	class *Class[In, Out]
	body  Body[In, Out]

	mu         sync.Mutex
	namespaces map[string]Namespace
	used       bool
}

func (s *Stage[In, Out]) Name() string {
	return s.class.name
}

func (s *Stage[In, Out]) Contract() Contract {
	return s.class.contract
}

func (s *Stage[In, Out]) String() string {
	return fmt.Sprintf("@skippable(%s)", s.class.name)
}

// Isolate moves the given declared names, or every declared name when only
// is empty, into ns for this instance.
//
// Namespaces are frozen by the first Invoke. Afterwards Isolate only
// succeeds when it would not change anything.
func (s *Stage[In, Out]) Isolate(ns Namespace, only ...string) error {
	names := only
	if len(names) == 0 {
		names = append(s.class.contract.Stashable(), s.class.contract.Poppable()...)
	}

	var undeclared []string
	for _, name := range names {
		if !s.class.contract.declares(name) {
			undeclared = append(undeclared, name)
		}
	}
	if len(undeclared) > 0 {
		return newNameError(ErrUndeclaredName, s.class.name, undeclared...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.used {
		var moved []string
		for _, name := range names {
			if s.namespaces[name] != ns {
				moved = append(moved, name)
			}
		}
		if len(moved) > 0 {
			return newNameError(ErrIsolatedAfterUse, s.class.name, moved...)
		}
		return nil
	}

	for _, name := range names {
		s.namespaces[name] = ns
	}
	return nil
}

// MustIsolate is Isolate for pipeline construction code; it panics on error
// and returns s for chaining.
func (s *Stage[In, Out]) MustIsolate(ns Namespace, only ...string) *Stage[In, Out] {
	if err := s.Isolate(ns, only...); err != nil {
		panic(err)
	}
	return s
}

// Stashable returns the namespaced names this instance stashes.
func (s *Stage[In, Out]) Stashable() []Scoped {
	return s.scoped(s.class.contract.Stashable())
}

// Poppable returns the namespaced names this instance pops.
func (s *Stage[In, Out]) Poppable() []Scoped {
	return s.scoped(s.class.contract.Poppable())
}

func (s *Stage[In, Out]) scoped(names []string) []Scoped {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]Scoped, 0, len(names))
	for _, name := range names {
		res = append(res, Scoped{Namespace: s.namespaces[name], Name: name})
	}
	return res
}

// freeze marks the instance as used and snapshots its routing.
func (s *Stage[In, Out]) freeze() map[string]Namespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.used = true
	snapshot := make(map[string]Namespace, len(s.namespaces))
	for name, ns := range s.namespaces {
		snapshot[name] = ns
	}
	return snapshot
}

// Invoke runs the stage for the execution unit bound to ctx by WithScope.
//
// Every declared poppable name is loaded before the body runs and must be
// popped exactly once. Every declared stashable name must be stashed at
// least once; the last stashed value is saved after the body returns.
func (s *Stage[In, Out]) Invoke(ctx context.Context, in In) (Out, error) {
	var zero Out

	scope, err := ScopeFrom(ctx)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", s.class.name, err)
	}

	contract := s.class.contract
	namespaces := s.freeze()
	logger := s.class.logger.With(
		slog.String("stage", s.class.name),
		slog.String("unit", scope.Unit.String()))

	pending := make(map[string]any, len(contract.poppable))
	for _, name := range contract.Poppable() {
		v, err := scope.Tracker.Load(ctx, scope.Unit, namespaces[name], name)
		if err != nil {
			return zero, fmt.Errorf("%s: load '%s': %w", s.class.name, name, err)
		}
		pending[name] = v
	}

	stashed := make(map[string]any, len(contract.stashable))

	handleStash := func(name string, value any) error {
		if !contract.CanStash(name) {
			return newNameError(ErrUndeclaredName, s.class.name, name)
		}
		stashed[name] = value
		return nil
	}

	handlePop := func(name string) (any, error) {
		if !contract.CanPop(name) {
			return nil, newNameError(ErrUndeclaredName, s.class.name, name)
		}
		v, ok := pending[name]
		if !ok {
			return nil, newNameError(ErrMissingPop, s.class.name, name)
		}
		delete(pending, name)
		return v, nil
	}

	out, err := Dispatch(ctx, s.body, in, handleStash, handlePop)
	if err != nil {
		return zero, err
	}

	var notStashed []string
	for name := range contract.stashable {
		if _, ok := stashed[name]; !ok {
			notStashed = append(notStashed, name)
		}
	}
	if len(notStashed) > 0 {
		return zero, newNameError(ErrIncompleteStash, s.class.name, notStashed...)
	}
	if len(pending) > 0 {
		return zero, newNameError(ErrIncompletePop, s.class.name, sortedKeys(pending)...)
	}

	for _, name := range contract.Stashable() {
		if err := scope.Tracker.Save(ctx, scope.Unit, namespaces[name], name, stashed[name]); err != nil {
			return zero, fmt.Errorf("%s: save '%s': %w", s.class.name, name, err)
		}
	}

	logger.Debug("skip stage invoked",
		slog.Int("stashed", len(contract.stashable)),
		slog.Int("popped", len(contract.poppable)))

	return out, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
