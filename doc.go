// Package jsinterop moves typed Go values into and out of a JavaScript
// host engine.
//
// The library is organized into several packages with distinct responsibilities:
//
//	jsinterop/           Root package with Memory and Allocator interfaces
//	├── enum/            Export rules, enum descriptors and declaration tables
//	├── buffer/          Typed buffer views over Go numeric slices
//	├── memory/          Staging typed buffers in WebAssembly linear memory
//	├── handle/          Per-session host object handle table
//	├── host/            Engine contract and wire value types
//	│   └── gojahost/    Engine implementation over goja
//	├── convert/         Custom type converters with host-side filters
//	├── bridge/          Sessions, object proxies, encode/decode, call-in registry
//	├── hash/            Incremental hashing over pluggable providers
//	├── errors/          Structured error types
//	└── cmd/jsbridge/    Script runner and REPL
//
// # Quick Start
//
//	sess := bridge.NewSession(gojahost.New())
//	defer sess.Close()
//
//	res, _ := sess.InvokeGlobal("parseInt", "42")
//	fmt.Println(res) // 42
//
//	obj, _ := sess.NewObject()
//	_ = obj.SetProperty("mode", NoStore, true) // "no-store" on the host side
//
// # Call-in
//
// Register Go functions by fully-qualified name and expose them to scripts:
//
//	reg := bridge.NewRegistry()
//	reg.Register("Demo:Sum", func(xs []int32) int32 { ... })
//	sess := bridge.NewSession(engine, bridge.WithRegistry(reg))
//	_ = sess.InstallCallIn("Managed")
//	// script: Managed.call("Demo:Sum", [new Int32Array([1, 2, 3])])
//
// # Thread Safety
//
// Sessions and engines are NOT safe for concurrent use. Enum descriptors and
// converter registries are safe for concurrent reads once built.
//
// # Copy Semantics
//
// Every value crossing the boundary is copied. Typed buffers never alias
// Go slices or host memory; host objects cross as handles, managed objects
// needing identity cross as opaque proxies.
package jsinterop
