package bridge

import (
	"reflect"
	"slices"
	"sync"

	"github.com/wippyai/jsinterop/errors"
)

// Registry holds the Go functions scripts may call by name. Names are
// fully qualified, conventionally "Type:Method".
type Registry struct {
	funcs map[string]*Method
	mu    sync.RWMutex
}

// Method is a registered call-in target.
type Method struct {
	Name string
	Fn   reflect.Value
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]*Method)}
}

// Register records fn under name. A later registration of the same name
// replaces the earlier one.
func (r *Registry) Register(name string, fn any) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "function name cannot be empty")
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		goType := "nil"
		if fn != nil {
			goType = rv.Type().String()
		}
		return errors.New(errors.PhaseRegister, errors.KindTypeMismatch).
			Path(name).
			GoType(goType).
			Detail("handler must be a function").
			Build()
	}

	r.mu.Lock()
	r.funcs[name] = &Method{Name: name, Fn: rv}
	r.mu.Unlock()
	return nil
}

// RegisterType registers every exported method of receiver as
// "prefix:Method". It returns the registered names.
func (r *Registry) RegisterType(prefix string, receiver any) ([]string, error) {
	if prefix == "" {
		return nil, errors.InvalidInput(errors.PhaseRegister, "prefix cannot be empty")
	}
	if receiver == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "receiver cannot be nil")
	}

	rv := reflect.ValueOf(receiver)
	rt := rv.Type()
	if rt.NumMethod() == 0 {
		return nil, errors.Registration("call-in type", prefix,
			errors.InvalidInput(errors.PhaseRegister, rt.String()+" has no exported methods"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, rt.NumMethod())
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() {
			continue
		}
		name := prefix + ":" + m.Name
		r.funcs[name] = &Method{Name: name, Fn: rv.Method(i)}
		names = append(names, name)
	}
	return names, nil
}

// Lookup returns the method registered under name.
func (r *Registry) Lookup(name string) (*Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.funcs[name]
	return m, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}
