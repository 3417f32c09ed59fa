package host

import (
	"time"

	"github.com/wippyai/jsinterop/buffer"
)

// Value is a wire value exchanged with an engine. It is one of:
//
//	nil             null
//	Undefined       undefined
//	bool, float64, string
//	[]Value         array (elements copied)
//	buffer.View     typed array (bytes copied)
//	ArrayBuffer     raw bytes (copied)
//	time.Time       Date
//	Object          engine-owned object or function
//	Opaque          Go value exposed by identity
type Value = any

// Undefined is the undefined value.
type Undefined struct{}

// ArrayBuffer is a copy of a host ArrayBuffer's bytes.
type ArrayBuffer []byte

// Opaque refers to a Go value held in a session handle table. Scripts see
// it as an opaque object; passing it back yields the same Go value.
type Opaque struct {
	ID uint32
}

// Object is an engine-owned object reference. Objects are only valid for
// the engine that produced them.
type Object interface {
	// IsFunction reports whether the object is callable.
	IsFunction() bool
	// ClassName returns the engine's class name, e.g. "Object" or "Function".
	ClassName() string
}

// TypeName describes v the way a script would, for error messages.
func TypeName(v Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case Undefined:
		return "undefined"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []Value:
		return "Array"
	case buffer.View:
		return x.Kind().Constructor()
	case ArrayBuffer:
		return "ArrayBuffer"
	case time.Time:
		return "Date"
	case Opaque:
		return "opaque"
	case Object:
		if x.IsFunction() {
			return "function"
		}
		return x.ClassName()
	default:
		return "unknown"
	}
}

// IsNullish reports whether v is null or undefined.
func IsNullish(v Value) bool {
	switch v.(type) {
	case nil, Undefined:
		return true
	}
	return false
}
