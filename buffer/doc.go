// Package buffer bridges Go numeric slices and host typed arrays.
//
// A View pairs an element kind (Int8 through Float64) with a private copy
// of the element bytes in native byte order. Every conversion copies:
//
//	v := buffer.FromSlice([]int32{1, 2, 3}) // Int32Array(3)
//	s, err := buffer.ToSlice[int32](v)
//
// Raw bytes can be reinterpreted under another element width as long as
// the byte count divides evenly; otherwise the call fails with a
// buffer_length_mismatch error:
//
//	v, err := buffer.Reinterpret(raw, buffer.Int32)
//
// Views encode to CBOR as RFC 8746 little-endian typed-array tags.
package buffer
