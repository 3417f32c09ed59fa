package buffer

import (
	"fmt"
	"reflect"
)

// Kind is the element kind of a typed buffer.
type Kind uint8

const (
	Invalid Kind = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

var kindInfo = [...]struct {
	name   string
	ctor   string
	goType reflect.Type
	width  int
}{
	Invalid: {"invalid", "", nil, 0},
	Int8:    {"int8", "Int8Array", reflect.TypeFor[int8](), 1},
	Uint8:   {"uint8", "Uint8Array", reflect.TypeFor[uint8](), 1},
	Int16:   {"int16", "Int16Array", reflect.TypeFor[int16](), 2},
	Uint16:  {"uint16", "Uint16Array", reflect.TypeFor[uint16](), 2},
	Int32:   {"int32", "Int32Array", reflect.TypeFor[int32](), 4},
	Uint32:  {"uint32", "Uint32Array", reflect.TypeFor[uint32](), 4},
	Float32: {"float32", "Float32Array", reflect.TypeFor[float32](), 4},
	Float64: {"float64", "Float64Array", reflect.TypeFor[float64](), 8},
}

// Kinds lists every valid element kind.
var Kinds = []Kind{Int8, Uint8, Int16, Uint16, Int32, Uint32, Float32, Float64}

// Valid reports whether k names an element kind.
func (k Kind) Valid() bool { return k > Invalid && int(k) < len(kindInfo) }

// Width returns the element width in bytes, or 0 for an invalid kind.
func (k Kind) Width() int {
	if !k.Valid() {
		return 0
	}
	return kindInfo[k].width
}

// Constructor returns the host typed-array constructor name, e.g. "Int32Array".
func (k Kind) Constructor() string {
	if !k.Valid() {
		return ""
	}
	return kindInfo[k].ctor
}

// ElemType returns the Go element type for k.
func (k Kind) ElemType() reflect.Type {
	if !k.Valid() {
		return nil
	}
	return kindInfo[k].goType
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindInfo[k].name
}

// KindForConstructor maps a host constructor name back to its kind.
// Uint8ClampedArray is treated as Uint8.
func KindForConstructor(name string) (Kind, bool) {
	if name == "Uint8ClampedArray" {
		return Uint8, true
	}
	for _, k := range Kinds {
		if kindInfo[k].ctor == name {
			return k, true
		}
	}
	return Invalid, false
}

// KindForType maps a Go element type (including named types) to its kind.
func KindForType(t reflect.Type) (Kind, bool) {
	switch t.Kind() {
	case reflect.Int8:
		return Int8, true
	case reflect.Uint8:
		return Uint8, true
	case reflect.Int16:
		return Int16, true
	case reflect.Uint16:
		return Uint16, true
	case reflect.Int32:
		return Int32, true
	case reflect.Uint32:
		return Uint32, true
	case reflect.Float32:
		return Float32, true
	case reflect.Float64:
		return Float64, true
	default:
		return Invalid, false
	}
}

// Element is the set of Go element types a typed buffer can carry.
type Element interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// KindOf returns the kind for element type T.
func KindOf[T Element]() Kind {
	k, _ := KindForType(reflect.TypeFor[T]())
	return k
}
