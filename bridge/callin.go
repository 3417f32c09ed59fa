package bridge

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/errors"
	"github.com/wippyai/jsinterop/host"
)

// Dispatch calls the registered method name with wire arguments. Arguments
// are decoded by parameter type and the result is encoded back.
func (s *Session) Dispatch(name string, args []host.Value) (host.Value, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	m, ok := s.registry.Lookup(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseResolve, "call-in", name)
	}
	s.log.Debug("dispatch", zap.String("name", name), zap.Int("args", len(args)))
	return s.invokeGo(name, m.Fn, args)
}

// InstallCallIn binds a global object whose call(name, args) method
// dispatches into the registry.
func (s *Session) InstallCallIn(global string) error {
	if err := s.check(); err != nil {
		return err
	}
	obj, err := s.engine.NewObject()
	if err != nil {
		return s.hostErr(global, err)
	}
	call, err := s.engine.NewCallback(func(_ host.Value, args []host.Value) (host.Value, error) {
		if len(args) == 0 {
			return nil, errors.InvalidInput(errors.PhaseResolve, "call-in name is required")
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseDecode, []string{"name"}, "string", host.TypeName(args[0]))
		}
		var rest []host.Value
		if len(args) > 1 && !host.IsNullish(args[1]) {
			arr, ok := args[1].([]host.Value)
			if !ok {
				return nil, errors.TypeMismatch(errors.PhaseDecode, []string{name, "args"}, "[]any", host.TypeName(args[1]))
			}
			rest = arr
		}
		return s.Dispatch(name, rest)
	})
	if err != nil {
		return s.hostErr(global, err)
	}
	if err := s.engine.Set(obj, "call", call); err != nil {
		return s.hostErr(global, err)
	}
	if err := s.engine.SetGlobal(global, obj); err != nil {
		return s.hostErr(global, err)
	}
	return nil
}

// invokeGo calls fn with wire arguments. A panic in fn becomes an
// invocation_failed error.
func (s *Session) invokeGo(name string, fn reflect.Value, args []host.Value) (res host.Value, err error) {
	ft := fn.Type()

	n := ft.NumIn()
	switch {
	case ft.IsVariadic() && len(args) < n-1:
		return nil, errors.InvocationFailed(name, fmt.Sprintf("want at least %d arguments, got %d", n-1, len(args)), nil)
	case !ft.IsVariadic() && len(args) != n:
		return nil, errors.InvocationFailed(name, fmt.Sprintf("want %d arguments, got %d", n, len(args)), nil)
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			pt = ft.In(n - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		v, derr := s.decode(a, pt, []string{name, fmt.Sprintf("arg%d", i)})
		if derr != nil {
			return nil, derr
		}
		in[i] = v
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("call-in panicked", zap.String("name", name), zap.Any("panic", r))
			res = nil
			err = errors.InvocationFailed(name, fmt.Sprint(r), nil)
		}
	}()

	out := fn.Call(in)

	if k := len(out); k > 0 && ft.Out(k-1) == errorType {
		if e := out[k-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:k-1]
	}

	switch len(out) {
	case 0:
		return host.Undefined{}, nil
	case 1:
		return s.encodeValue(out[0], []string{name, "result"})
	default:
		arr := make([]host.Value, len(out))
		for i, v := range out {
			hv, err := s.encodeValue(v, []string{name, fmt.Sprintf("result%d", i)})
			if err != nil {
				return nil, err
			}
			arr[i] = hv
		}
		return arr, nil
	}
}
