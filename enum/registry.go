package enum

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/errors"
)

// Codec is the type-erased view of a Descriptor used by reflective callers.
type Codec interface {
	TypeName() string
	GoType() reflect.Type
	Members() []MemberInfo
	Encode(v reflect.Value) (Representation, error)
	Decode(r Representation) (reflect.Value, error)
	DecodeValue(v any) (reflect.Value, error)
}

var (
	_ Codec = (*Descriptor[int])(nil)
	_ Codec = (*Descriptor[uint32])(nil)
)

// entry is a lazily built descriptor. build runs at most once.
type entry struct {
	build    func() (Codec, error)
	codec    Codec
	err      error
	typeName string
	once     sync.Once
}

func (e *entry) get() (Codec, error) {
	e.once.Do(func() {
		e.codec, e.err = e.build()
		e.build = nil
		if e.err != nil {
			Logger().Error("enum descriptor build failed",
				zap.String("type", e.typeName),
				zap.Error(e.err))
		}
	})
	return e.codec, e.err
}

var registry = struct {
	entries map[reflect.Type]*entry
	mu      sync.RWMutex
}{
	entries: make(map[reflect.Type]*entry),
}

// Register records the declaration of enum type E. The descriptor is built
// on first use and cached for the life of the process.
func Register[E Integer](typeName string, declare func() []Member[E]) error {
	if declare == nil {
		return errors.Registration("enum", typeName, errors.InvalidInput(errors.PhaseRegister, "declaration func is nil"))
	}
	t := reflect.TypeFor[E]()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if existing, ok := registry.entries[t]; ok {
		return errors.Registration("enum", typeName,
			errors.InvalidInput(errors.PhaseRegister, "Go type "+t.String()+" already registered as "+existing.typeName))
	}

	registry.entries[t] = &entry{
		typeName: typeName,
		build: func() (Codec, error) {
			d, err := Build(typeName, declare())
			if err != nil {
				return nil, err
			}
			return d, nil
		},
	}
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister[E Integer](typeName string, declare func() []Member[E]) {
	if err := Register(typeName, declare); err != nil {
		panic(err)
	}
}

// For returns the descriptor of E, building it on first use.
func For[E Integer]() (*Descriptor[E], error) {
	t := reflect.TypeFor[E]()
	c, ok, err := Lookup(t)
	if !ok {
		return nil, errors.NotFound(errors.PhaseResolve, "enum type", t.String())
	}
	if err != nil {
		return nil, err
	}
	return c.(*Descriptor[E]), nil
}

// Lookup returns the codec registered for t. ok is false when t has no
// registration; err is the cached build failure, if any.
func Lookup(t reflect.Type) (c Codec, ok bool, err error) {
	registry.mu.RLock()
	e, ok := registry.entries[t]
	registry.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	c, err = e.get()
	return c, true, err
}

// Registered reports whether t has an enum registration.
func Registered(t reflect.Type) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.entries[t]
	return ok
}
