package gojahost

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/dop251/goja"

	"github.com/wippyai/jsinterop/buffer"
	"github.com/wippyai/jsinterop/errors"
	"github.com/wippyai/jsinterop/host"
)

var opaqueRefType = reflect.TypeFor[*opaqueRef]()

const (
	// maxDepth bounds array nesting on the way out of the engine.
	maxDepth = 512
	// maxArrayLength bounds the elements copied out of one array.
	maxArrayLength = 1 << 24
)

// convert maps a script value to a wire value. Conversion can run script
// code through getters and proxy traps, so it runs under Try.
func (e *Engine) convert(v goja.Value) (out host.Value, err error) {
	if ex := e.vm.Try(func() { out, err = e.fromJS(v, make(map[*goja.Object]struct{})) }); ex != nil {
		return nil, e.exception(ex)
	}
	return out, err
}

func (e *Engine) toJSArgs(args []host.Value) ([]goja.Value, error) {
	out := make([]goja.Value, len(args))
	for i, a := range args {
		v, err := e.toJS(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Engine) toJS(v host.Value) (goja.Value, error) {
	switch x := v.(type) {
	case nil:
		return goja.Null(), nil
	case host.Undefined:
		return goja.Undefined(), nil
	case bool, float64, string:
		return e.vm.ToValue(x), nil
	case []host.Value:
		items := make([]any, len(x))
		for i, el := range x {
			jv, err := e.toJS(el)
			if err != nil {
				return nil, err
			}
			items[i] = jv
		}
		return e.vm.NewArray(items...), nil
	case buffer.View:
		return e.typedArray(x)
	case host.ArrayBuffer:
		data := make([]byte, len(x))
		copy(data, x)
		return e.vm.ToValue(e.vm.NewArrayBuffer(data)), nil
	case time.Time:
		ms := float64(x.UnixMilli())
		d, err := e.vm.New(e.vm.Get("Date"), e.vm.ToValue(ms))
		if err != nil {
			return nil, e.exception(err)
		}
		return d, nil
	case host.Opaque:
		if o, ok := e.opaque[x.ID]; ok {
			return o, nil
		}
		o := e.vm.ToValue(&opaqueRef{id: x.ID}).(*goja.Object)
		e.opaque[x.ID] = o
		return o, nil
	case *object:
		return x.o, nil
	default:
		return nil, errors.UnsupportedType(errors.PhaseEncode, nil, fmt.Sprintf("%T", v))
	}
}

func (e *Engine) typedArray(v buffer.View) (goja.Value, error) {
	if !v.Kind().Valid() {
		return nil, errors.InvalidInput(errors.PhaseEncode, "typed array of invalid kind")
	}
	ab := e.vm.NewArrayBuffer(v.Bytes())
	o, err := e.vm.New(e.vm.Get(v.Kind().Constructor()), e.vm.ToValue(ab))
	if err != nil {
		return nil, e.exception(err)
	}
	return o, nil
}

// fromJS converts v. seen holds the arrays currently being walked. Script
// exceptions raised while reading elements panic through to the caller's
// Try.
func (e *Engine) fromJS(v goja.Value, seen map[*goja.Object]struct{}) (host.Value, error) {
	if v == nil || goja.IsUndefined(v) {
		return host.Undefined{}, nil
	}
	if goja.IsNull(v) {
		return nil, nil
	}

	if o, ok := v.(*goja.Object); ok {
		return e.fromObject(o, seen)
	}

	switch x := v.Export().(type) {
	case bool:
		return x, nil
	case string:
		return x, nil
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	default:
		return nil, errors.UnsupportedType(errors.PhaseDecode, nil, fmt.Sprintf("%T", x))
	}
}

func (e *Engine) fromObject(o *goja.Object, seen map[*goja.Object]struct{}) (host.Value, error) {
	if o.ExportType() == opaqueRefType {
		if ref, ok := o.Export().(*opaqueRef); ok {
			return host.Opaque{ID: ref.id}, nil
		}
	}

	cls, err := e.classify(goja.Undefined(), o)
	if err != nil {
		return nil, e.exception(err)
	}

	switch name := cls.String(); name {
	case "":
		return e.wrap(o), nil
	case "ArrayBuffer":
		return host.ArrayBuffer(e.bytesOf(o)), nil
	case "Date":
		return e.dateOf(o)
	case "Array":
		return e.arrayOf(o, seen)
	default:
		kind, ok := buffer.KindForConstructor(name)
		if !ok {
			// BigInt64Array and friends stay opaque objects.
			return e.wrap(o), nil
		}
		raw, err := e.viewBytes(goja.Undefined(), o)
		if err != nil {
			return nil, e.exception(err)
		}
		return buffer.New(kind, e.bytesOf(raw.(*goja.Object)))
	}
}

func (e *Engine) bytesOf(o *goja.Object) []byte {
	ab, ok := o.Export().(goja.ArrayBuffer)
	if !ok {
		return nil
	}
	src := ab.Bytes()
	out := make([]byte, len(src))
	copy(out, src)
	return out
}

func (e *Engine) dateOf(o *goja.Object) (host.Value, error) {
	getTime, ok := goja.AssertFunction(o.Get("getTime"))
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseDecode, nil, "time.Time", "Date")
	}
	res, err := getTime(o)
	if err != nil {
		return nil, e.exception(err)
	}
	ms := res.ToFloat()
	if math.IsNaN(ms) {
		return nil, errors.InvalidInput(errors.PhaseDecode, "invalid Date")
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func (e *Engine) arrayOf(o *goja.Object, seen map[*goja.Object]struct{}) (host.Value, error) {
	if _, ok := seen[o]; ok {
		return nil, errors.InvalidInput(errors.PhaseDecode, "array contains itself")
	}
	if len(seen) >= maxDepth {
		return nil, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("arrays nested deeper than %d", maxDepth))
	}
	n := o.Get("length").ToInteger()
	if n < 0 || n > maxArrayLength {
		return nil, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("array length %d out of range", n))
	}
	seen[o] = struct{}{}
	defer delete(seen, o)

	out := make([]host.Value, n)
	for i := int64(0); i < n; i++ {
		v, err := e.fromJS(o.Get(fmt.Sprint(i)), seen)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
