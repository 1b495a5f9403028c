package tracker

import (
	"context"
	"sync"

	"github.com/ib-77/skiprop/pkg/skip"
)

// Releaser drops every value still held for a finished execution unit.
type Releaser interface {
	Release(ctx context.Context, unit skip.Unit) error
}

type key struct {
	unit skip.Unit
	ns   skip.Namespace
	name string
}

// Memory is a skip.Tracker backed by a map. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	values map[key]any
}

func NewMemory() *Memory {
	return &Memory{values: make(map[key]any)}
}

func (m *Memory) Load(_ context.Context, unit skip.Unit, ns skip.Namespace, name string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{unit: unit, ns: ns, name: name}
	v := m.values[k]
	delete(m.values, k)
	return v, nil
}

func (m *Memory) Save(_ context.Context, unit skip.Unit, ns skip.Namespace, name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key{unit: unit, ns: ns, name: name}] = value
	return nil
}

func (m *Memory) Release(_ context.Context, unit skip.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.values {
		if k.unit == unit {
			delete(m.values, k)
		}
	}
	return nil
}

// Len reports how many values are currently held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
