package convert

import (
	"reflect"
	"sync"

	"github.com/wippyai/jsinterop/errors"
)

// Registry maps Go types to converters. It is populated at start and
// safe for concurrent lookups.
type Registry struct {
	byType map[reflect.Type]*Converter
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[reflect.Type]*Converter)}
}

// Add registers c. A type can have only one converter.
func (r *Registry) Add(c *Converter) error {
	if c == nil || c.Type == nil {
		return errors.Registration("converter", "<nil>", errors.InvalidInput(errors.PhaseRegister, "converter type is required"))
	}
	if c.ToHost == nil || c.FromHost == nil {
		return errors.Registration("converter", c.Type.String(),
			errors.InvalidInput(errors.PhaseRegister, "ToHost and FromHost are required"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byType[c.Type]; ok {
		return errors.Registration("converter", c.Type.String(),
			errors.InvalidInput(errors.PhaseRegister, "type already has a converter"))
	}
	r.byType[c.Type] = c
	return nil
}

// Lookup returns the converter for t.
func (r *Registry) Lookup(t reflect.Type) (*Converter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byType[t]
	return c, ok
}

// Require returns the converter for t, or an unsupported_type error.
func (r *Registry) Require(t reflect.Type) (*Converter, error) {
	if c, ok := r.Lookup(t); ok {
		return c, nil
	}
	return nil, errors.UnsupportedType(errors.PhaseEncode, nil, t.String())
}

// Types lists the registered types.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, 0, len(r.byType))
	for t := range r.byType {
		out = append(out, t)
	}
	return out
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for t, c := range r.byType {
		out.byType[t] = c
	}
	return out
}
