package buffer

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/wippyai/jsinterop/errors"
)

// View is a typed buffer: an element kind plus a private copy of the
// element bytes in native byte order. A View never aliases memory it was
// built from or handed out.
type View struct {
	data []byte
	kind Kind
}

// New copies data into a view of the given kind. len(data) must be a
// multiple of the kind's width.
func New(kind Kind, data []byte) (View, error) {
	if !kind.Valid() {
		return View{}, errors.InvalidInput(errors.PhaseEncode, "invalid element kind "+kind.String())
	}
	if len(data)%kind.Width() != 0 {
		return View{}, errors.BufferLengthMismatch(errors.PhaseDecode, kind.Constructor(), len(data), kind.Width())
	}
	return View{kind: kind, data: clone(data)}, nil
}

// Reinterpret views raw bytes as elements of kind. The byte count must
// divide evenly by the element width.
func Reinterpret(data []byte, kind Kind) (View, error) {
	return New(kind, data)
}

// Kind returns the element kind.
func (v View) Kind() Kind { return v.kind }

// Len returns the element count.
func (v View) Len() int {
	if !v.kind.Valid() {
		return 0
	}
	return len(v.data) / v.kind.Width()
}

// ByteLength returns the byte count.
func (v View) ByteLength() int { return len(v.data) }

// Bytes returns a copy of the element bytes.
func (v View) Bytes() []byte { return clone(v.data) }

// As reinterprets the view's bytes as another element kind.
func (v View) As(kind Kind) (View, error) {
	return Reinterpret(v.data, kind)
}

// Equal reports whether both views have the same kind and bytes.
func (v View) Equal(o View) bool {
	return v.kind == o.kind && string(v.data) == string(o.data)
}

func (v View) String() string {
	return fmt.Sprintf("%s(%d)", v.kind.Constructor(), v.Len())
}

// FromSlice copies s element by element into a new view.
func FromSlice[T Element](s []T) View {
	k := KindOf[T]()
	w := k.Width()
	b := make([]byte, len(s)*w)
	ne := binary.NativeEndian

	for i, x := range s {
		off := i * w
		switch k {
		case Int8, Uint8:
			b[off] = byte(x)
		case Int16, Uint16:
			ne.PutUint16(b[off:], uint16(x))
		case Int32, Uint32:
			ne.PutUint32(b[off:], uint32(x))
		case Float32:
			ne.PutUint32(b[off:], math.Float32bits(float32(x)))
		case Float64:
			ne.PutUint64(b[off:], math.Float64bits(float64(x)))
		}
	}
	return View{kind: k, data: b}
}

// ToSlice copies the view into a new []T. The view's kind must be T's kind.
func ToSlice[T Element](v View) ([]T, error) {
	k := KindOf[T]()
	if v.kind != k {
		return nil, errors.TypeMismatch(errors.PhaseDecode, nil, reflect.TypeFor[[]T]().String(), v.kind.Constructor())
	}
	w := k.Width()
	if len(v.data)%w != 0 {
		return nil, errors.BufferLengthMismatch(errors.PhaseDecode, k.Constructor(), len(v.data), w)
	}

	out := make([]T, len(v.data)/w)
	ne := binary.NativeEndian
	for i := range out {
		off := i * w
		switch k {
		case Int8:
			out[i] = T(int8(v.data[off]))
		case Uint8:
			out[i] = T(v.data[off])
		case Int16:
			out[i] = T(int16(ne.Uint16(v.data[off:])))
		case Uint16:
			out[i] = T(ne.Uint16(v.data[off:]))
		case Int32:
			out[i] = T(int32(ne.Uint32(v.data[off:])))
		case Uint32:
			out[i] = T(ne.Uint32(v.data[off:]))
		case Float32:
			out[i] = T(math.Float32frombits(ne.Uint32(v.data[off:])))
		case Float64:
			out[i] = T(math.Float64frombits(ne.Uint64(v.data[off:])))
		}
	}
	return out, nil
}

// FromValue builds a view from a reflected slice or array whose element
// type has a buffer kind, including named element types.
func FromValue(rv reflect.Value) (View, error) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return View{}, errors.UnsupportedType(errors.PhaseEncode, nil, rv.Type().String())
	}
	k, ok := KindForType(rv.Type().Elem())
	if !ok {
		return View{}, errors.UnsupportedType(errors.PhaseEncode, nil, rv.Type().String())
	}

	n := rv.Len()
	w := k.Width()
	b := make([]byte, n*w)
	ne := binary.NativeEndian
	for i := 0; i < n; i++ {
		e := rv.Index(i)
		off := i * w
		switch k {
		case Int8:
			b[off] = byte(int8(e.Int()))
		case Uint8:
			b[off] = byte(e.Uint())
		case Int16:
			ne.PutUint16(b[off:], uint16(int16(e.Int())))
		case Uint16:
			ne.PutUint16(b[off:], uint16(e.Uint()))
		case Int32:
			ne.PutUint32(b[off:], uint32(int32(e.Int())))
		case Uint32:
			ne.PutUint32(b[off:], uint32(e.Uint()))
		case Float32:
			ne.PutUint32(b[off:], math.Float32bits(float32(e.Float())))
		case Float64:
			ne.PutUint64(b[off:], math.Float64bits(e.Float()))
		}
	}
	return View{kind: k, data: b}, nil
}

// ToValue copies the view into a new slice of sliceType, whose element
// type must match the view's kind.
func ToValue(v View, sliceType reflect.Type) (reflect.Value, error) {
	if sliceType.Kind() != reflect.Slice {
		return reflect.Value{}, errors.UnsupportedType(errors.PhaseDecode, nil, sliceType.String())
	}
	k, ok := KindForType(sliceType.Elem())
	if !ok {
		return reflect.Value{}, errors.UnsupportedType(errors.PhaseDecode, nil, sliceType.String())
	}
	if k != v.kind {
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseDecode, nil, sliceType.String(), v.kind.Constructor())
	}

	n := v.Len()
	w := k.Width()
	out := reflect.MakeSlice(sliceType, n, n)
	ne := binary.NativeEndian
	for i := 0; i < n; i++ {
		e := out.Index(i)
		off := i * w
		switch k {
		case Int8:
			e.SetInt(int64(int8(v.data[off])))
		case Uint8:
			e.SetUint(uint64(v.data[off]))
		case Int16:
			e.SetInt(int64(int16(ne.Uint16(v.data[off:]))))
		case Uint16:
			e.SetUint(uint64(ne.Uint16(v.data[off:])))
		case Int32:
			e.SetInt(int64(int32(ne.Uint32(v.data[off:]))))
		case Uint32:
			e.SetUint(uint64(ne.Uint32(v.data[off:])))
		case Float32:
			e.SetFloat(float64(math.Float32frombits(ne.Uint32(v.data[off:]))))
		case Float64:
			e.SetFloat(math.Float64frombits(ne.Uint64(v.data[off:])))
		}
	}
	return out, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
