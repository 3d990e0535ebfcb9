package provider

import (
	"sort"
	"sync"

	"github.com/sandrolain/ddexpr/pkg/types"
)

// Registry maps operation names to providers, one namespace per arity.
//
// A registry is populated once and then frozen; a frozen registry is
// read-only and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	frozen  bool
	nullary map[string]*Nullary
	unary   map[string]*UnaryCollection
	binary  map[string]*BinaryCollection
	ternary map[string]*TernaryCollection
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{
		nullary: make(map[string]*Nullary),
		unary:   make(map[string]*UnaryCollection),
		binary:  make(map[string]*BinaryCollection),
		ternary: make(map[string]*TernaryCollection),
	}
}

func (r *Registry) checkWritable(kind, name string, exists bool) error {
	if r.frozen {
		return types.Errorf(types.ErrDuplicateOperation, "registry is frozen; cannot register %s operation %q", kind, name)
	}
	if exists {
		return types.Errorf(types.ErrDuplicateOperation, "%s operation %q is already registered", kind, name)
	}
	return nil
}

// RegisterNullary adds a zero-argument operation.
func (r *Registry) RegisterNullary(name string, p *Nullary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.nullary[name]
	if err := r.checkWritable("nullary", name, exists); err != nil {
		return err
	}
	r.nullary[name] = p
	return nil
}

// RegisterUnary adds a one-argument operation under name.
func (r *Registry) RegisterUnary(name string, c *UnaryCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.unary[name]
	if err := r.checkWritable("unary", name, exists); err != nil {
		return err
	}
	r.unary[name] = c
	return nil
}

// RegisterBinary adds a two-argument operation under name.
func (r *Registry) RegisterBinary(name string, c *BinaryCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.binary[name]
	if err := r.checkWritable("binary", name, exists); err != nil {
		return err
	}
	r.binary[name] = c
	return nil
}

// RegisterTernary adds a three-argument operation under name.
func (r *Registry) RegisterTernary(name string, c *TernaryCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.ternary[name]
	if err := r.checkWritable("ternary", name, exists); err != nil {
		return err
	}
	r.ternary[name] = c
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() *Registry {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
	return r
}

// Frozen reports whether the registry is read-only.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Clone returns an unfrozen copy sharing the registered providers.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for k, v := range r.nullary {
		out.nullary[k] = v
	}
	for k, v := range r.unary {
		out.unary[k] = v
	}
	for k, v := range r.binary {
		out.binary[k] = v
	}
	for k, v := range r.ternary {
		out.ternary[k] = v
	}
	return out
}

// Nullary returns the zero-argument operation name.
func (r *Registry) Nullary(name string) (*Nullary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.nullary[name]
	return p, ok
}

// Unary returns the one-argument operation name.
func (r *Registry) Unary(name string) (*UnaryCollection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.unary[name]
	return c, ok
}

// Binary returns the two-argument operation name.
func (r *Registry) Binary(name string) (*BinaryCollection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.binary[name]
	return c, ok
}

// Ternary returns the three-argument operation name.
func (r *Registry) Ternary(name string) (*TernaryCollection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.ternary[name]
	return c, ok
}

// Names lists the sorted operation names registered for the given arity (0-3).
func (r *Registry) Names(arity int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	switch arity {
	case 0:
		names = keys(r.nullary)
	case 1:
		names = keys(r.unary)
	case 2:
		names = keys(r.binary)
	case 3:
		names = keys(r.ternary)
	}
	sort.Strings(names)
	return names
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
