package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/jobflow/pkg/domain"
)

// Handler mutates the flow context and computes the next event.
// Router states call it with a nil input; prompt states pass the answer.
type Handler[C any] func(ctx context.Context, c C, input any) (domain.EventID, error)

// Entry is a registered handler together with the events it can emit.
type Entry[C any] struct {
	Name  string
	Fn    Handler[C]
	Emits []domain.EventID
}

// Registry manages the handlers referenced by a flow definition.
type Registry[C any] struct {
	mu       sync.RWMutex
	handlers map[string]Entry[C]
}

// New creates a new empty registry.
func New[C any]() *Registry[C] {
	return &Registry[C]{
		handlers: make(map[string]Entry[C]),
	}
}

// Register adds a handler to the registry.
// emits declares every event the handler may return; validation relies on it.
// If a handler with the same name exists, it is overwritten.
func (r *Registry[C]) Register(name string, fn Handler[C], emits ...domain.EventID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = Entry[C]{Name: name, Fn: fn, Emits: emits}
}

// Lookup returns the entry registered under name.
func (r *Registry[C]) Lookup(name string) (Entry[C], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.handlers[name]
	return e, ok
}

// Call looks up a handler by name and executes it.
// Returns an error if the handler is not found.
func (r *Registry[C]) Call(ctx context.Context, name string, c C, input any) (domain.EventID, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("handler not found: %s", name)
	}
	return e.Fn(ctx, c, input)
}

// Names returns the registered handler names in lexical order.
func (r *Registry[C]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
