package bridge

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/wippyai/jsinterop/buffer"
	"github.com/wippyai/jsinterop/enum"
	"github.com/wippyai/jsinterop/errors"
	"github.com/wippyai/jsinterop/handle"
	"github.com/wippyai/jsinterop/host"
)

// maxSafeInteger is the largest integer a host number holds exactly.
const maxSafeInteger = 1 << 53

var (
	anyType         = reflect.TypeFor[any]()
	errorType       = reflect.TypeFor[error]()
	timeType        = reflect.TypeFor[time.Time]()
	viewType        = reflect.TypeFor[buffer.View]()
	objectType      = reflect.TypeFor[*Object]()
	functionType    = reflect.TypeFor[*Function]()
	arrayBufferType = reflect.TypeFor[host.ArrayBuffer]()
	float64Type     = reflect.TypeFor[float64]()
)

// Encode converts a Go value to a wire value.
func (s *Session) Encode(v any) (host.Value, error) {
	return s.encodeAt(v, nil)
}

func (s *Session) encodeAt(v any, path []string) (host.Value, error) {
	if v == nil {
		return nil, nil
	}
	return s.encodeValue(reflect.ValueOf(v), path)
}

func (s *Session) encodeValue(rv reflect.Value, path []string) (host.Value, error) {
	switch x := rv.Interface().(type) {
	case host.Undefined, host.Opaque:
		return x, nil
	case buffer.View:
		return x, nil
	case host.ArrayBuffer:
		return append(host.ArrayBuffer(nil), x...), nil
	case *Object:
		return x.receiver()
	case *Function:
		if x == nil {
			return nil, errors.NullReceiver("nil function")
		}
		return x.receiver()
	}

	t := rv.Type()

	if c, ok := s.converters.Lookup(t); ok {
		wire, err := c.Encode(rv)
		if err != nil {
			return nil, err
		}
		hv, err := s.encodeAt(wire, path)
		if err != nil {
			return nil, err
		}
		if c.PostFilter != "" {
			return s.filter(c.PostFilter, hv)
		}
		return hv, nil
	}

	if codec, ok, err := enum.Lookup(t); ok {
		if err != nil {
			return nil, err
		}
		rep, err := codec.Encode(rv)
		if err != nil {
			return nil, err
		}
		return rep.Host(), nil
	}

	if t == timeType {
		return rv.Interface().(time.Time), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n > maxSafeInteger || n < -maxSafeInteger {
			return nil, errors.Overflow(errors.PhaseEncode, path, n, "number")
		}
		return float64(n), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		if n > maxSafeInteger {
			return nil, errors.Overflow(errors.PhaseEncode, path, n, "number")
		}
		return float64(n), nil

	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil

	case reflect.String:
		return rv.String(), nil

	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		fallthrough
	case reflect.Array:
		if _, ok := s.bufferKind(t.Elem()); ok {
			return buffer.FromValue(rv)
		}
		out := make([]host.Value, rv.Len())
		for i := range out {
			hv, err := s.encodeValue(rv.Index(i), append(path, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}
			out[i] = hv
		}
		return out, nil

	case reflect.Func:
		if rv.IsNil() {
			return nil, nil
		}
		return s.callback(rv, path)

	case reflect.Pointer, reflect.Map, reflect.Chan:
		if rv.IsNil() {
			return nil, nil
		}
		return s.expose(rv)

	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return s.encodeValue(rv.Elem(), path)
	}

	return nil, errors.UnsupportedType(errors.PhaseEncode, path, t.String())
}

type identity struct {
	t reflect.Type
	p uintptr
}

func identityKey(rv reflect.Value) (identity, bool) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{t: rv.Type(), p: rv.Pointer()}, true
	}
	return identity{}, false
}

// expose hands a Go value to the host by identity. The same value always
// gets the same opaque proxy while it is referenced.
func (s *Session) expose(rv reflect.Value) (host.Value, error) {
	key, _ := identityKey(rv)
	h, err := s.handles.Intern(handle.KindManaged, key, rv.Interface())
	if err != nil {
		return nil, errors.NullReceiver("session closed")
	}
	return host.Opaque{ID: uint32(h)}, nil
}

// callback exposes a Go func to the host.
func (s *Session) callback(fn reflect.Value, path []string) (host.Value, error) {
	name := fn.Type().String()
	if len(path) > 0 {
		name = path[len(path)-1]
	}
	obj, err := s.engine.NewCallback(func(this host.Value, args []host.Value) (host.Value, error) {
		return s.invokeGo(name, fn, args)
	})
	if err != nil {
		return nil, s.hostErr(name, err)
	}
	return obj, nil
}

// Decode converts a wire value into target, which must be a non-nil pointer.
func (s *Session) Decode(hv host.Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.InvalidInput(errors.PhaseDecode, "target must be a non-nil pointer")
	}
	out, err := s.decode(hv, rv.Type().Elem(), nil)
	if err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}

// DecodeAs converts a wire value to T.
func DecodeAs[T any](s *Session, hv host.Value) (T, error) {
	var out T
	err := s.Decode(hv, &out)
	return out, err
}

// decodeNatural picks a Go type from the wire value itself.
func (s *Session) decodeNatural(hv host.Value) (any, error) {
	switch x := hv.(type) {
	case nil, host.Undefined:
		return nil, nil
	case bool, string, time.Time:
		return x, nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= maxSafeInteger && !(x == 0 && math.Signbit(x)) {
			return int(x), nil
		}
		return x, nil
	case buffer.View:
		return naturalSlice(x)
	case host.ArrayBuffer:
		return append([]byte(nil), x...), nil
	case []host.Value:
		out := make([]any, len(x))
		for i, el := range x {
			v, err := s.decodeNatural(el)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case host.Opaque:
		v, ok := s.Managed(handle.Handle(x.ID))
		if !ok {
			return nil, errors.NullReceiver(fmt.Sprintf("managed handle %d is not live", x.ID))
		}
		return v, nil
	case host.Object:
		obj, err := s.wrapObject(x)
		if err != nil {
			return nil, err
		}
		if x.IsFunction() {
			return &Function{Object: obj}, nil
		}
		return obj, nil
	default:
		return nil, errors.UnsupportedType(errors.PhaseDecode, nil, fmt.Sprintf("%T", hv))
	}
}

func naturalSlice(v buffer.View) (any, error) {
	switch v.Kind() {
	case buffer.Int8:
		return buffer.ToSlice[int8](v)
	case buffer.Uint8:
		return buffer.ToSlice[uint8](v)
	case buffer.Int16:
		return buffer.ToSlice[int16](v)
	case buffer.Uint16:
		return buffer.ToSlice[uint16](v)
	case buffer.Int32:
		return buffer.ToSlice[int32](v)
	case buffer.Uint32:
		return buffer.ToSlice[uint32](v)
	case buffer.Float32:
		return buffer.ToSlice[float32](v)
	case buffer.Float64:
		return buffer.ToSlice[float64](v)
	default:
		return nil, errors.InvalidInput(errors.PhaseDecode, "typed array of invalid kind")
	}
}

// decode converts a wire value to a value of type t.
func (s *Session) decode(hv host.Value, t reflect.Type, path []string) (reflect.Value, error) {
	if t == anyType {
		v, err := s.decodeNatural(hv)
		if err != nil {
			return reflect.Value{}, err
		}
		if v == nil {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(v), nil
	}

	if c, ok := s.converters.Lookup(t); ok {
		if c.PreFilter != "" {
			filtered, err := s.filter(c.PreFilter, hv)
			if err != nil {
				return reflect.Value{}, err
			}
			hv = filtered
		}
		wire, err := s.decodeNatural(hv)
		if err != nil {
			return reflect.Value{}, err
		}
		if n, ok := wire.(int); ok {
			wire = float64(n)
		}
		return c.Decode(wire)
	}

	if codec, ok, err := enum.Lookup(t); ok {
		if err != nil {
			return reflect.Value{}, err
		}
		return codec.DecodeValue(hv)
	}

	if op, ok := hv.(host.Opaque); ok {
		v, live := s.Managed(handle.Handle(op.ID))
		if !live {
			return reflect.Value{}, errors.NullReceiver(fmt.Sprintf("managed handle %d is not live", op.ID))
		}
		mv := reflect.ValueOf(v)
		if !mv.Type().AssignableTo(t) {
			return reflect.Value{}, errors.TypeMismatch(errors.PhaseDecode, path, t.String(), mv.Type().String())
		}
		out := reflect.New(t).Elem()
		out.Set(mv)
		return out, nil
	}

	switch t {
	case timeType:
		if tm, ok := hv.(time.Time); ok {
			return reflect.ValueOf(tm), nil
		}
		return reflect.Value{}, mismatch(path, t, hv)
	case viewType:
		switch x := hv.(type) {
		case buffer.View:
			return reflect.ValueOf(x), nil
		case host.ArrayBuffer:
			v, err := buffer.New(buffer.Uint8, x)
			return reflect.ValueOf(v), err
		}
		return reflect.Value{}, mismatch(path, t, hv)
	case arrayBufferType:
		if ab, ok := hv.(host.ArrayBuffer); ok {
			return reflect.ValueOf(append(host.ArrayBuffer(nil), ab...)), nil
		}
		return reflect.Value{}, mismatch(path, t, hv)
	case objectType, functionType:
		if host.IsNullish(hv) {
			return reflect.Zero(t), nil
		}
		obj, ok := hv.(host.Object)
		if !ok {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		if t == functionType && !obj.IsFunction() {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		o, err := s.wrapObject(obj)
		if err != nil {
			return reflect.Value{}, err
		}
		if t == functionType {
			return reflect.ValueOf(&Function{Object: o}), nil
		}
		return reflect.ValueOf(o), nil
	}

	out := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.Bool:
		b, ok := hv.(bool)
		if !ok {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := hv.(float64)
		if !ok {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		if f != math.Trunc(f) {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
			return reflect.Value{}, errors.Overflow(errors.PhaseDecode, path, f, t.String())
		}
		out.SetInt(int64(f))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f, ok := hv.(float64)
		if !ok {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		if f != math.Trunc(f) {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
			return reflect.Value{}, errors.Overflow(errors.PhaseDecode, path, f, t.String())
		}
		out.SetUint(uint64(f))

	case reflect.Float32, reflect.Float64:
		f, ok := hv.(float64)
		if !ok {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, errors.Overflow(errors.PhaseDecode, path, f, t.String())
		}
		out.SetFloat(f)

	case reflect.String:
		str, ok := hv.(string)
		if !ok {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		out.SetString(str)

	case reflect.Slice:
		return s.decodeSlice(hv, t, path)

	case reflect.Func:
		if host.IsNullish(hv) {
			return out, nil
		}
		obj, ok := hv.(host.Object)
		if !ok || !obj.IsFunction() {
			return reflect.Value{}, mismatch(path, t, hv)
		}
		return s.delegate(obj, t), nil

	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Interface:
		if host.IsNullish(hv) {
			return out, nil
		}
		if t.Kind() == reflect.Interface {
			v, err := s.decodeNatural(hv)
			if err != nil {
				return reflect.Value{}, err
			}
			if v != nil && reflect.TypeOf(v).Implements(t) {
				out.Set(reflect.ValueOf(v))
				return out, nil
			}
		}
		return reflect.Value{}, mismatch(path, t, hv)

	default:
		return reflect.Value{}, errors.UnsupportedType(errors.PhaseDecode, path, t.String())
	}
	return out, nil
}

// bufferKind reports the typed array kind that slices of elem travel as.
// Registered enum and converter types never do, even over a numeric kind.
func (s *Session) bufferKind(elem reflect.Type) (buffer.Kind, bool) {
	if enum.Registered(elem) {
		return buffer.Invalid, false
	}
	if _, ok := s.converters.Lookup(elem); ok {
		return buffer.Invalid, false
	}
	return buffer.KindForType(elem)
}

// viewElements spells a typed array out as host numbers.
func viewElements(v buffer.View) ([]host.Value, error) {
	rv, err := buffer.ToValue(v, reflect.SliceOf(v.Kind().ElemType()))
	if err != nil {
		return nil, err
	}
	out := make([]host.Value, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Convert(float64Type).Float()
	}
	return out, nil
}

func (s *Session) decodeSlice(hv host.Value, t reflect.Type, path []string) (reflect.Value, error) {
	if host.IsNullish(hv) {
		return reflect.Zero(t), nil
	}

	kind, isBuffer := s.bufferKind(t.Elem())
	if isBuffer {
		switch x := hv.(type) {
		case buffer.View:
			if x.Kind() != kind {
				return reflect.Value{}, mismatch(path, t, hv)
			}
			return buffer.ToValue(x, t)
		case host.ArrayBuffer:
			v, err := buffer.Reinterpret(x, kind)
			if err != nil {
				return reflect.Value{}, err
			}
			return buffer.ToValue(v, t)
		}
	}

	if v, ok := hv.(buffer.View); ok && !isBuffer {
		// Enum and converter elements are checked one by one.
		items, err := viewElements(v)
		if err != nil {
			return reflect.Value{}, err
		}
		hv = items
	}

	arr, ok := hv.([]host.Value)
	if !ok {
		return reflect.Value{}, mismatch(path, t, hv)
	}
	out := reflect.MakeSlice(t, len(arr), len(arr))
	for i, el := range arr {
		v, err := s.decode(el, t.Elem(), append(path, fmt.Sprint(i)))
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// delegate builds a Go func of type t that calls a host function. When
// t's last result is error, host failures are returned there; otherwise
// they panic.
func (s *Session) delegate(fn host.Object, t reflect.Type) reflect.Value {
	returnsErr := t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType

	return reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		results := make([]reflect.Value, t.NumOut())
		for i := range results {
			results[i] = reflect.Zero(t.Out(i))
		}
		fail := func(err error) []reflect.Value {
			if !returnsErr {
				panic(err)
			}
			results[len(results)-1] = reflect.ValueOf(&err).Elem()
			return results
		}

		args := make([]host.Value, len(in))
		for i, a := range in {
			hv, err := s.encodeValue(a, []string{"delegate", fmt.Sprintf("arg%d", i)})
			if err != nil {
				return fail(err)
			}
			args[i] = hv
		}
		res, err := s.engine.Call(fn, host.Undefined{}, args)
		if err != nil {
			return fail(s.hostErr("delegate", err))
		}

		n := t.NumOut()
		if returnsErr {
			n--
		}
		if n == 1 {
			v, err := s.decode(res, t.Out(0), []string{"delegate", "result"})
			if err != nil {
				return fail(err)
			}
			results[0] = v
		}
		return results
	})
}

func mismatch(path []string, t reflect.Type, hv host.Value) error {
	return errors.TypeMismatch(errors.PhaseDecode, path, t.String(), host.TypeName(hv))
}
