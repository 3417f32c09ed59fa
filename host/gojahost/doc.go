// Package gojahost implements host.Engine on the goja JavaScript runtime.
//
// Typed arrays and ArrayBuffers are copied in both directions. Dates
// cross as time.Time in UTC with millisecond precision. Opaque proxies
// are cached per id so a Go value keeps one script-side identity until
// ForgetOpaque is called.
package gojahost
