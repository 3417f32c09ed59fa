package host

// Engine is the capability contract of a script engine. Implementations
// are not safe for concurrent use. Errors thrown by scripts are returned
// as *Exception.
type Engine interface {
	// Eval runs source text and returns its completion value.
	Eval(name, src string) (Value, error)

	// Global returns a global binding. A missing binding is Undefined.
	Global(name string) (Value, error)
	// SetGlobal sets a global binding.
	SetGlobal(name string, v Value) error

	// Has reports whether obj has the property, own or inherited.
	Has(obj Object, name string) (bool, error)
	// Get reads a property. ok is false when the property does not exist.
	Get(obj Object, name string) (v Value, ok bool, err error)
	// Set writes a property.
	Set(obj Object, name string, v Value) error

	// Call invokes fn with the given receiver and arguments.
	Call(fn Object, this Value, args []Value) (Value, error)
	// New invokes ctor as a constructor.
	New(ctor Object, args []Value) (Object, error)

	// NewObject creates an empty plain object.
	NewObject() (Object, error)
	// NewFunction creates a function from parameter names and body text.
	NewFunction(params []string, body string) (Object, error)
	// NewCallback exposes fn to scripts as a function. An error returned
	// by fn is thrown into the script.
	NewCallback(fn Callback) (Object, error)

	// ForgetOpaque drops the engine's cached proxy object for id.
	ForgetOpaque(id uint32)

	Close() error
}

// Callback is a Go function callable from script.
type Callback func(this Value, args []Value) (Value, error)
