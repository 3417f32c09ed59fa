// Package errors provides structured error types for the jsinterop module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the member path, the Go and host type names, the
// offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("args", "0").
//		GoType("int32").
//		HostType("string").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use the constructors for the marshaling taxonomy:
//
//	errors.UnknownEnumMember("RequestCache", 42)
//	errors.EnumMemberNotFound("RequestCache", "no-such")
//	errors.BufferLengthMismatch(errors.PhaseDecode, "Int32Array", 7, 4)
//	errors.PropertyNotFound("myInt")
//	errors.InvocationFailed("add", "TypeError: x is not a function", cause)
//	errors.NullReceiver("handle released")
//	errors.UnsupportedType(errors.PhaseEncode, nil, "struct {}")
//	errors.DestinationTooSmall(16, 48)
//
// Matching by kind alone works with a phase-less target or IsKind:
//
//	errors.Is(err, &errors.Error{Kind: errors.KindPropertyNotFound})
//	errors.IsKind(err, errors.KindPropertyNotFound)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
