package gojahost

import (
	stderrors "errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/wippyai/jsinterop/host"
)

// ErrClosed is returned by every call on a closed engine.
var ErrClosed = stderrors.New("engine closed")

const classifySrc = `(function (v) {
	if (v instanceof ArrayBuffer) return "ArrayBuffer";
	if (ArrayBuffer.isView(v)) return (v instanceof DataView) ? "" : v.constructor.name;
	if (v instanceof Date) return "Date";
	if (Array.isArray(v)) return "Array";
	return "";
})`

const viewBytesSrc = `(function (v) {
	return v.buffer.slice(v.byteOffset, v.byteOffset + v.byteLength);
})`

// Engine implements host.Engine over a goja runtime.
type Engine struct {
	vm        *goja.Runtime
	classify  goja.Callable
	viewBytes goja.Callable
	opaque    map[uint32]*goja.Object
	closed    bool
}

// object is a goja object handed out as host.Object.
type object struct {
	o  *goja.Object
	fn bool
}

func (x *object) IsFunction() bool  { return x.fn }
func (x *object) ClassName() string { return x.o.ClassName() }

// opaqueRef is the Go value behind a script-side opaque proxy.
type opaqueRef struct {
	id uint32
}

// New creates an engine with a fresh goja runtime.
func New() *Engine {
	return NewWithRuntime(goja.New())
}

// NewWithRuntime creates an engine over an existing runtime.
func NewWithRuntime(vm *goja.Runtime) *Engine {
	e := &Engine{vm: vm, opaque: make(map[uint32]*goja.Object)}
	e.classify = mustCompile(vm, classifySrc)
	e.viewBytes = mustCompile(vm, viewBytesSrc)
	return e
}

func mustCompile(vm *goja.Runtime, src string) goja.Callable {
	v, err := vm.RunString(src)
	if err != nil {
		panic(fmt.Sprintf("gojahost: compile helper: %v", err))
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic("gojahost: helper is not a function")
	}
	return fn
}

// Runtime returns the underlying goja runtime.
func (e *Engine) Runtime() *goja.Runtime { return e.vm }

func (e *Engine) Eval(name, src string) (host.Value, error) {
	if e.closed {
		return nil, ErrClosed
	}
	v, err := e.vm.RunScript(name, src)
	if err != nil {
		return nil, e.exception(err)
	}
	return e.convert(v)
}

func (e *Engine) Global(name string) (host.Value, error) {
	if e.closed {
		return nil, ErrClosed
	}
	v := e.vm.Get(name)
	if v == nil {
		return host.Undefined{}, nil
	}
	return e.convert(v)
}

func (e *Engine) SetGlobal(name string, v host.Value) error {
	if e.closed {
		return ErrClosed
	}
	jv, err := e.toJS(v)
	if err != nil {
		return err
	}
	return e.exception(e.vm.Set(name, jv))
}

func (e *Engine) Has(obj host.Object, name string) (bool, error) {
	o, err := e.unwrap(obj)
	if err != nil {
		return false, err
	}
	var v goja.Value
	if ex := e.vm.Try(func() { v = o.Get(name) }); ex != nil {
		return false, e.exception(ex)
	}
	return v != nil, nil
}

func (e *Engine) Get(obj host.Object, name string) (host.Value, bool, error) {
	o, err := e.unwrap(obj)
	if err != nil {
		return nil, false, err
	}
	var v goja.Value
	if ex := e.vm.Try(func() { v = o.Get(name) }); ex != nil {
		return nil, false, e.exception(ex)
	}
	if v == nil {
		return nil, false, nil
	}
	out, err := e.convert(v)
	return out, true, err
}

func (e *Engine) Set(obj host.Object, name string, v host.Value) error {
	o, err := e.unwrap(obj)
	if err != nil {
		return err
	}
	jv, err := e.toJS(v)
	if err != nil {
		return err
	}
	var setErr error
	if ex := e.vm.Try(func() { setErr = o.Set(name, jv) }); ex != nil {
		return e.exception(ex)
	}
	return e.exception(setErr)
}

func (e *Engine) Call(fn host.Object, this host.Value, args []host.Value) (host.Value, error) {
	o, err := e.unwrap(fn)
	if err != nil {
		return nil, err
	}
	callable, ok := goja.AssertFunction(o)
	if !ok {
		return nil, &host.Exception{Name: "TypeError", Message: o.ClassName() + " is not a function"}
	}

	jthis, err := e.toJS(this)
	if err != nil {
		return nil, err
	}
	jargs, err := e.toJSArgs(args)
	if err != nil {
		return nil, err
	}

	res, err := callable(jthis, jargs...)
	if err != nil {
		return nil, e.exception(err)
	}
	return e.convert(res)
}

func (e *Engine) New(ctor host.Object, args []host.Value) (host.Object, error) {
	o, err := e.unwrap(ctor)
	if err != nil {
		return nil, err
	}
	jargs, err := e.toJSArgs(args)
	if err != nil {
		return nil, err
	}
	res, err := e.vm.New(o, jargs...)
	if err != nil {
		return nil, e.exception(err)
	}
	return e.wrap(res), nil
}

func (e *Engine) NewObject() (host.Object, error) {
	if e.closed {
		return nil, ErrClosed
	}
	return e.wrap(e.vm.NewObject()), nil
}

func (e *Engine) NewFunction(params []string, body string) (host.Object, error) {
	if e.closed {
		return nil, ErrClosed
	}
	args := make([]goja.Value, 0, len(params)+1)
	for _, p := range params {
		args = append(args, e.vm.ToValue(p))
	}
	args = append(args, e.vm.ToValue(body))

	fn, err := e.vm.New(e.vm.Get("Function"), args...)
	if err != nil {
		return nil, e.exception(err)
	}
	return e.wrap(fn), nil
}

func (e *Engine) NewCallback(fn host.Callback) (host.Object, error) {
	if e.closed {
		return nil, ErrClosed
	}
	native := func(call goja.FunctionCall) goja.Value {
		seen := make(map[*goja.Object]struct{})
		this, err := e.fromJS(call.This, seen)
		if err != nil {
			panic(e.vm.NewGoError(err))
		}
		args := make([]host.Value, len(call.Arguments))
		for i, a := range call.Arguments {
			if args[i], err = e.fromJS(a, seen); err != nil {
				panic(e.vm.NewGoError(err))
			}
		}

		res, err := fn(this, args)
		if err != nil {
			panic(e.throwable(err))
		}
		out, err := e.toJS(res)
		if err != nil {
			panic(e.vm.NewGoError(err))
		}
		return out
	}
	return e.wrap(e.vm.ToValue(native).(*goja.Object)), nil
}

func (e *Engine) ForgetOpaque(id uint32) {
	delete(e.opaque, id)
}

func (e *Engine) Close() error {
	e.closed = true
	e.opaque = nil
	return nil
}

func (e *Engine) wrap(o *goja.Object) *object {
	_, fn := goja.AssertFunction(o)
	return &object{o: o, fn: fn}
}

func (e *Engine) unwrap(obj host.Object) (*goja.Object, error) {
	if e.closed {
		return nil, ErrClosed
	}
	x, ok := obj.(*object)
	if !ok || x == nil {
		return nil, fmt.Errorf("gojahost: foreign object %T", obj)
	}
	return x.o, nil
}

// exception converts a goja exception into *host.Exception, keeping the
// thrown message. Other errors pass through.
func (e *Engine) exception(err error) error {
	if err == nil {
		return nil
	}
	var ex *goja.Exception
	if !stderrors.As(err, &ex) {
		return err
	}

	out := &host.Exception{Message: ex.Error(), Stack: ex.String()}
	v := ex.Value()
	if v == nil {
		return out
	}
	// A thrown value whose getters throw again keeps the fields read so far.
	e.vm.Try(func() {
		if o, ok := v.(*goja.Object); ok {
			if m := o.Get("message"); m != nil && !goja.IsUndefined(m) {
				out.Message = m.String()
			}
			if n := o.Get("name"); n != nil && !goja.IsUndefined(n) {
				out.Name = n.String()
			}
		} else {
			out.Message = v.String()
		}
		out.Value, _ = e.fromJS(v, make(map[*goja.Object]struct{}))
	})
	return out
}

// throwable turns a Go error into the value thrown into script. A script
// exception passing back through Go is rethrown as its original value.
func (e *Engine) throwable(err error) goja.Value {
	var ex *host.Exception
	if stderrors.As(err, &ex) && ex.Value != nil {
		if v, convErr := e.toJS(ex.Value); convErr == nil {
			return v
		}
	}
	return e.vm.NewGoError(err)
}

var _ host.Engine = (*Engine)(nil)
