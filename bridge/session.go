package bridge

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/convert"
	"github.com/wippyai/jsinterop/errors"
	"github.com/wippyai/jsinterop/handle"
	"github.com/wippyai/jsinterop/host"
)

// Session binds an engine to the Go side: it owns the handle table for
// host objects and exposed Go values, the converter registry and the
// call-in registry. A Session is not safe for concurrent use.
type Session struct {
	engine     host.Engine
	handles    *handle.Table
	converters *convert.Registry
	registry   *Registry
	log        *zap.Logger
	filters    map[string]host.Object
	observers  []handle.Observer
	closed     bool
}

// NewSession creates a session over engine.
func NewSession(engine host.Engine, opts ...Option) *Session {
	s := &Session{
		engine:  engine,
		handles: handle.NewTable(),
		filters: make(map[string]host.Object),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.converters == nil {
		s.converters = convert.Default()
	}
	if s.registry == nil {
		s.registry = NewRegistry()
	}
	if s.log == nil {
		s.log = Logger()
	}

	s.handles.Subscribe(handle.ObserverFunc(s.onHandleEvent))
	for _, o := range s.observers {
		s.handles.Subscribe(o)
	}
	return s
}

func (s *Session) onHandleEvent(e handle.Event) {
	if e.Type == handle.EventDropped && e.Kind == handle.KindManaged {
		s.engine.ForgetOpaque(uint32(e.Handle))
	}
}

// Engine returns the session's engine.
func (s *Session) Engine() host.Engine { return s.engine }

// Handles returns the session's handle table.
func (s *Session) Handles() *handle.Table { return s.handles }

// Registry returns the call-in registry.
func (s *Session) Registry() *Registry { return s.registry }

// Converters returns the converter registry.
func (s *Session) Converters() *convert.Registry { return s.converters }

// Close releases every handle and closes the engine.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.filters = nil
	err := s.handles.Close()
	if cerr := s.engine.Close(); err == nil {
		err = cerr
	}
	s.log.Debug("session closed")
	return err
}

func (s *Session) check() error {
	if s == nil {
		return errors.NullReceiver("nil session")
	}
	if s.closed {
		return errors.NullReceiver("session closed")
	}
	return nil
}

// Eval runs script source and decodes its completion value.
func (s *Session) Eval(name, src string) (any, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	v, err := s.engine.Eval(name, src)
	if err != nil {
		return nil, s.hostErr(name, err)
	}
	return s.decodeNatural(v)
}

// Global returns a global binding decoded naturally. A missing binding
// is a property_not_found error.
func (s *Session) Global(name string) (any, error) {
	hv, err := s.global(name)
	if err != nil {
		return nil, err
	}
	return s.decodeNatural(hv)
}

func (s *Session) global(name string) (host.Value, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	hv, err := s.engine.Global(name)
	if err != nil {
		return nil, s.hostErr(name, err)
	}
	if _, ok := hv.(host.Undefined); ok {
		return nil, errors.PropertyNotFound(name)
	}
	return hv, nil
}

// GlobalObject returns a proxy for the global object bound to name.
func (s *Session) GlobalObject(name string) (*Object, error) {
	hv, err := s.global(name)
	if err != nil {
		return nil, err
	}
	obj, ok := hv.(host.Object)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseDecode, []string{name}, "*bridge.Object", host.TypeName(hv))
	}
	return s.wrapObject(obj)
}

// SetGlobal encodes v and binds it to a global name.
func (s *Session) SetGlobal(name string, v any) error {
	if err := s.check(); err != nil {
		return err
	}
	hv, err := s.Encode(v)
	if err != nil {
		return err
	}
	if err := s.engine.SetGlobal(name, hv); err != nil {
		return s.hostErr(name, err)
	}
	return nil
}

// InvokeGlobal calls the global function fn with args.
func (s *Session) InvokeGlobal(fn string, args ...any) (any, error) {
	hv, err := s.global(fn)
	if err != nil {
		return nil, err
	}
	obj, ok := hv.(host.Object)
	if !ok || !obj.IsFunction() {
		return nil, errors.InvocationFailed(fn, fn+" is not a function", nil)
	}
	return s.call(fn, obj, host.Undefined{}, args)
}

// NewObject creates an empty host object.
func (s *Session) NewObject() (*Object, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	obj, err := s.engine.NewObject()
	if err != nil {
		return nil, s.hostErr("Object", err)
	}
	return s.wrapObject(obj)
}

// NewFunction creates a host function. The last argument is the body;
// the ones before it are parameter names.
func (s *Session) NewFunction(paramsAndBody ...string) (*Function, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if len(paramsAndBody) == 0 {
		return nil, errors.InvalidInput(errors.PhaseHost, "function body is required")
	}
	n := len(paramsAndBody) - 1
	fn, err := s.engine.NewFunction(paramsAndBody[:n], paramsAndBody[n])
	if err != nil {
		return nil, s.hostErr("Function", err)
	}
	obj, err := s.wrapObject(fn)
	if err != nil {
		return nil, err
	}
	return &Function{Object: obj}, nil
}

// call invokes fn on the host and decodes the result naturally.
func (s *Session) call(target string, fn host.Object, this host.Value, args []any) (any, error) {
	hargs := make([]host.Value, len(args))
	for i, a := range args {
		hv, err := s.encodeAt(a, []string{target, fmt.Sprintf("arg%d", i)})
		if err != nil {
			return nil, err
		}
		hargs[i] = hv
	}
	res, err := s.engine.Call(fn, this, hargs)
	if err != nil {
		return nil, s.hostErr(target, err)
	}
	return s.decodeNatural(res)
}

// hostErr maps an engine failure to the error taxonomy. Script exceptions
// become invocation_failed with the original message.
func (s *Session) hostErr(target string, err error) error {
	var ex *host.Exception
	if stderrors.As(err, &ex) {
		return errors.InvocationFailed(target, ex.Error(), ex)
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		return err
	}
	return errors.Wrap(errors.PhaseHost, errors.KindInvocationFailed, err, target)
}

// filter runs a host-side filter expression over v.
func (s *Session) filter(expr string, v host.Value) (host.Value, error) {
	fn, ok := s.filters[expr]
	if !ok {
		var err error
		fn, err = s.engine.NewFunction([]string{"value"}, "return ("+expr+");")
		if err != nil {
			return nil, s.hostErr("filter", err)
		}
		s.filters[expr] = fn
	}
	out, err := s.engine.Call(fn, host.Undefined{}, []host.Value{v})
	if err != nil {
		return nil, s.hostErr("filter", err)
	}
	return out, nil
}

// Managed returns the Go value exposed to scripts under h.
func (s *Session) Managed(h handle.Handle) (any, bool) {
	return s.handles.GetKind(h, handle.KindManaged)
}

// ReleaseValue drops one script-side reference to a Go value previously
// exposed by identity. It reports whether the value was exposed.
func (s *Session) ReleaseValue(v any) bool {
	rv := reflect.ValueOf(v)
	key, ok := identityKey(rv)
	if !ok {
		return false
	}
	h, ok := s.handles.Lookup(key)
	if !ok {
		return false
	}
	_, err := s.handles.Release(h)
	return err == nil
}
