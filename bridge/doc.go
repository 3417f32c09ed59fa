// Package bridge connects Go code to a script engine.
//
// A Session wraps a host.Engine. Host objects reach Go as *Object and
// *Function proxies, each holding a handle in the session's table until
// Release or Close:
//
//	sess := bridge.NewSession(gojahost.New())
//	defer sess.Close()
//
//	counter, _ := sess.GlobalObject("counter")
//	counter.SetProperty("value", 41, false)
//	n, _ := counter.Invoke("inc")
//
// # Marshaling
//
// Values cross in both directions by type. Go integers become numbers and
// fail with an overflow error beyond 2^53. Typed slices become typed arrays.
// Registered enums cross as their exported strings or numbers, and types
// with a convert.Converter cross as the converter's wire value with its
// filters applied on the host side. Go funcs become callable functions.
// Pointers, maps and channels without a converter are exposed by identity:
// the script sees an opaque object and handing it back yields the same Go
// value.
//
// Decoding into an interface picks a natural Go type: integral numbers
// become int, other numbers float64, arrays []any, objects *Object.
//
// # Call-in
//
// Go functions registered in a Registry can be called by name, either
// through Session.Dispatch or from script via the object installed by
// InstallCallIn:
//
//	reg := bridge.NewRegistry()
//	reg.Register("Demo:Sum", func(a, b int) int { return a + b })
//	sess := bridge.NewSession(engine, bridge.WithRegistry(reg))
//	sess.InstallCallIn("Managed")
//	// script: Managed.call("Demo:Sum", [1, 2])
//
// A trailing error result is thrown into the script. A panic is recovered
// and reported as invocation_failed.
package bridge
