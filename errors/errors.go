package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // enum descriptor build
	PhaseEncode   Phase = "encode"   // Go to host
	PhaseDecode   Phase = "decode"   // host to Go
	PhaseHost     Phase = "host"     // host object access and invocation
	PhaseRegister Phase = "register" // converter, enum and call-in registration
	PhaseHash     Phase = "hash"     // hash provider operations
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownEnumMember    Kind = "unknown_enum_member"
	KindEnumMemberNotFound   Kind = "enum_member_not_found"
	KindBufferLengthMismatch Kind = "buffer_length_mismatch"
	KindPropertyNotFound     Kind = "property_not_found"
	KindInvocationFailed     Kind = "invocation_failed"
	KindNullReceiver         Kind = "null_receiver"
	KindUnsupportedType      Kind = "unsupported_type"
	KindDestinationTooSmall  Kind = "destination_too_small"

	KindTypeMismatch   Kind = "type_mismatch"
	KindOverflow       Kind = "overflow"
	KindInvalidInput   Kind = "invalid_input"
	KindNotFound       Kind = "not_found"
	KindRegistration   Kind = "registration"
	KindStateUndefined Kind = "state_undefined"
	KindCancelled      Kind = "cancelled"
	KindDisposed       Kind = "disposed"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	HostType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.HostType != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.HostType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", host type ")
			b.WriteString(e.HostType)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.HostType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if stderrors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the member or argument path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// HostType sets the host-side type name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the marshaling taxonomy

// UnknownEnumMember reports a managed enum value with no declared member.
func UnknownEnumMember(enumType string, value any) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnknownEnumMember,
		GoType: enumType,
		Detail: fmt.Sprintf("value %v is not a member of %s", value, enumType),
		Value:  value,
	}
}

// EnumMemberNotFound reports a host representation that matches no member.
func EnumMemberNotFound(enumType string, raw any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindEnumMemberNotFound,
		GoType: enumType,
		Detail: fmt.Sprintf("no member of %s matches %#v", enumType, raw),
		Value:  raw,
	}
}

// BufferLengthMismatch reports a byte length that is not a multiple of the element width.
func BufferLengthMismatch(phase Phase, hostType string, byteLength, width int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindBufferLengthMismatch,
		HostType: hostType,
		Detail:   fmt.Sprintf("byte length %d is not a multiple of element width %d", byteLength, width),
		Value:    byteLength,
	}
}

// PropertyNotFound reports a missing host property.
func PropertyNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindPropertyNotFound,
		Path:   []string{name},
		Detail: fmt.Sprintf("property %q does not exist", name),
	}
}

// InvocationFailed wraps a host-side exception, preserving its message.
func InvocationFailed(target, message string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindInvocationFailed,
		Path:   pathOf(target),
		Detail: message,
		Cause:  cause,
	}
}

// NullReceiver reports an operation on a handle bound to no live host object.
func NullReceiver(detail string) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindNullReceiver,
		Detail: detail,
	}
}

// UnsupportedType reports a Go type that cannot cross the boundary.
func UnsupportedType(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedType,
		Path:   path,
		GoType: goType,
		Detail: "no converter registered and type is not marshalable by value",
	}
}

// DestinationTooSmall reports a hash destination shorter than the digest.
func DestinationTooSmall(have, need int) *Error {
	return &Error{
		Phase:  PhaseHash,
		Kind:   KindDestinationTooSmall,
		Detail: fmt.Sprintf("destination has %d bytes, digest needs %d", have, need),
		Value:  have,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, hostType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		HostType: hostType,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		GoType: targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(what, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s %q", what, name),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

func pathOf(target string) []string {
	if target == "" {
		return nil
	}
	return []string{target}
}
