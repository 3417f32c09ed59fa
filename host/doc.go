// Package host defines the contract between the bridge and a script
// engine: the Engine interface and the wire values that cross it.
//
// Every wire value is a copy or a reference token; no Go memory is shared
// with the engine. Engine-owned objects cross as Object, Go values with
// identity semantics cross as Opaque.
package host
