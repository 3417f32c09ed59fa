package bridge

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/errors"
	"github.com/wippyai/jsinterop/handle"
	"github.com/wippyai/jsinterop/host"
)

// Object is a proxy for a host object. It holds a handle into the
// session's table until Release.
type Object struct {
	s *Session
	h handle.Handle
}

// Function is a proxy for a callable host object.
type Function struct {
	*Object
}

func (s *Session) wrapObject(obj host.Object) (*Object, error) {
	h, err := s.handles.Acquire(handle.KindHostObject, obj)
	if err != nil {
		return nil, errors.NullReceiver("session closed")
	}
	return &Object{s: s, h: h}, nil
}

// Handle returns the proxy's handle, 0 once released.
func (o *Object) Handle() handle.Handle {
	if o == nil {
		return 0
	}
	return o.h
}

// Session returns the owning session.
func (o *Object) Session() *Session {
	if o == nil {
		return nil
	}
	return o.s
}

// IsFunction reports whether the host object is callable.
func (o *Object) IsFunction() bool {
	obj, err := o.receiver()
	return err == nil && obj.IsFunction()
}

// AsFunction returns a Function proxy sharing this object's handle.
func (o *Object) AsFunction() (*Function, error) {
	obj, err := o.receiver()
	if err != nil {
		return nil, err
	}
	if !obj.IsFunction() {
		return nil, errors.TypeMismatch(errors.PhaseDecode, nil, "*bridge.Function", host.TypeName(obj))
	}
	return &Function{Object: o}, nil
}

// Release drops the proxy's reference. Further use fails with null_receiver.
func (o *Object) Release() error {
	if o == nil || o.s == nil || o.h == 0 {
		return errors.NullReceiver("object already released")
	}
	h := o.h
	o.h = 0
	if _, err := o.s.handles.Release(h); err != nil {
		return errors.NullReceiver(err.Error())
	}
	return nil
}

func (o *Object) receiver() (host.Object, error) {
	if o == nil || o.s == nil {
		return nil, errors.NullReceiver("nil object")
	}
	if err := o.s.check(); err != nil {
		return nil, err
	}
	if o.h == 0 {
		return nil, errors.NullReceiver("object released")
	}
	v, ok := o.s.handles.GetKind(o.h, handle.KindHostObject)
	if !ok {
		return nil, errors.NullReceiver(fmt.Sprintf("handle %d is not bound to a host object", o.h))
	}
	return v.(host.Object), nil
}

// GetProperty reads a property and decodes it naturally. A property that
// does not exist is a property_not_found error.
func (o *Object) GetProperty(name string) (any, error) {
	hv, err := o.get(name)
	if err != nil {
		return nil, err
	}
	return o.s.decodeNatural(hv)
}

// GetPropertyAs reads a property into target, which must be a non-nil
// pointer. The value is decoded by the pointed-to type.
func (o *Object) GetPropertyAs(name string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.InvalidInput(errors.PhaseDecode, "target must be a non-nil pointer")
	}
	hv, err := o.get(name)
	if err != nil {
		return err
	}
	out, err := o.s.decode(hv, rv.Type().Elem(), []string{name})
	if err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}

func (o *Object) get(name string) (host.Value, error) {
	obj, err := o.receiver()
	if err != nil {
		return nil, err
	}
	hv, ok, err := o.s.engine.Get(obj, name)
	if err != nil {
		return nil, o.s.hostErr(name, err)
	}
	if !ok {
		return nil, errors.PropertyNotFound(name)
	}
	return hv, nil
}

// SetProperty encodes value and writes it. Unless createIfMissing is set,
// writing a property that does not exist is a property_not_found error.
func (o *Object) SetProperty(name string, value any, createIfMissing bool) error {
	obj, err := o.receiver()
	if err != nil {
		return err
	}
	if !createIfMissing {
		has, err := o.s.engine.Has(obj, name)
		if err != nil {
			return o.s.hostErr(name, err)
		}
		if !has {
			return errors.PropertyNotFound(name)
		}
	}
	hv, err := o.s.encodeAt(value, []string{name})
	if err != nil {
		return err
	}
	if err := o.s.engine.Set(obj, name, hv); err != nil {
		return o.s.hostErr(name, err)
	}
	return nil
}

// Invoke calls method with this object as the receiver.
func (o *Object) Invoke(method string, args ...any) (any, error) {
	obj, err := o.receiver()
	if err != nil {
		return nil, err
	}
	hv, ok, err := o.s.engine.Get(obj, method)
	if err != nil {
		return nil, o.s.hostErr(method, err)
	}
	if !ok {
		return nil, errors.PropertyNotFound(method)
	}
	fn, isObj := hv.(host.Object)
	if !isObj || !fn.IsFunction() {
		return nil, errors.InvocationFailed(method, method+" is not a function", nil)
	}

	o.s.log.Debug("invoke", zap.String("method", method), zap.Int("args", len(args)))
	return o.s.call(method, fn, obj, args)
}

func (o *Object) String() string {
	if o == nil || o.h == 0 {
		return "Object(released)"
	}
	return fmt.Sprintf("Object(%d)", o.h)
}

// Call invokes the function with an explicit receiver. A nil this is
// passed as null.
func (f *Function) Call(this any, args ...any) (any, error) {
	return f.Apply(this, args)
}

// Apply invokes the function with an explicit receiver and an argument slice.
func (f *Function) Apply(this any, args []any) (any, error) {
	if f == nil {
		return nil, errors.NullReceiver("nil function")
	}
	obj, err := f.receiver()
	if err != nil {
		return nil, err
	}
	if !obj.IsFunction() {
		return nil, errors.InvocationFailed(f.String(), "object is not a function", nil)
	}
	hthis, err := f.s.encodeAt(this, []string{"this"})
	if err != nil {
		return nil, err
	}
	return f.s.call("function", obj, hthis, args)
}
