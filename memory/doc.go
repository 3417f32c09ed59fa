// Package memory stages typed buffers in WebAssembly linear memory.
//
// Wazero adapts a wazero api.Memory to jsinterop.Memory. Bump is a
// host-side allocator; Guest calls the module's own cabi_realloc or
// alloc/free exports.
//
//	mem, _ := memory.FromModule(mod)
//	alloc := memory.NewBump(mem, 1024)
//	r, err := memory.Store(mem, alloc, buffer.FromSlice([]float32{1, 2}))
//	v, err := memory.Load(mem, r, buffer.Float32)
//
// Guest memory is little-endian; views are converted on the way in and out.
package memory
