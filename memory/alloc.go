package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/jsinterop"
)

// Bump is a host-side bump allocator over a Wazero memory. It hands out
// regions above base and grows memory a page at a time when needed.
// Free only reclaims the most recent allocation.
type Bump struct {
	mem  *Wazero
	base uint32
	next uint32
}

// NewBump creates an allocator that starts handing out memory at base.
func NewBump(mem *Wazero, base uint32) *Bump {
	return &Bump{mem: mem, base: base, next: base}
}

func (b *Bump) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, fmt.Errorf("alignment %d is not a power of two", align)
	}

	ptr := (b.next + align - 1) &^ (align - 1)
	end := uint64(ptr) + uint64(size)
	if end > 1<<32 {
		return 0, fmt.Errorf("alloc %d bytes: address space exhausted", size)
	}

	if cur := uint64(b.mem.Size()); end > cur {
		pages := uint32((end - cur + PageSize - 1) / PageSize)
		if _, err := b.mem.Grow(pages); err != nil {
			return 0, fmt.Errorf("alloc %d bytes: %w", size, err)
		}
	}

	b.next = uint32(end)
	return ptr, nil
}

func (b *Bump) Free(ptr, size, align uint32) {
	if ptr+size == b.next && ptr >= b.base {
		b.next = ptr
	}
}

// Reset releases every allocation.
func (b *Bump) Reset() {
	b.next = b.base
}

// Guest allocates through functions exported by the guest module.
// It prefers cabi_realloc and falls back to alloc/free.
type Guest struct {
	allocFn       api.Function
	freeFn        api.Function
	ctx           context.Context
	stackBuf      []uint64
	mu            sync.Mutex
	isSimpleAlloc bool
}

// NewGuest resolves the allocator exports of mod. ctx is used for every
// guest call.
func NewGuest(ctx context.Context, mod api.Module) (*Guest, error) {
	g := &Guest{ctx: ctx, stackBuf: make([]uint64, 4)}
	if fn := mod.ExportedFunction("cabi_realloc"); fn != nil {
		g.allocFn = fn
		g.freeFn = fn
		return g, nil
	}
	fn := mod.ExportedFunction("alloc")
	if fn == nil {
		return nil, fmt.Errorf("module %q exports no allocator", mod.Name())
	}
	g.allocFn = fn
	g.freeFn = mod.ExportedFunction("free")
	g.isSimpleAlloc = true
	return g, nil
}

func (g *Guest) Alloc(size, align uint32) (uint32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isSimpleAlloc {
		g.stackBuf[0] = uint64(size)
		if err := g.allocFn.CallWithStack(g.ctx, g.stackBuf[:1]); err != nil {
			return 0, err
		}
		return uint32(g.stackBuf[0]), nil
	}
	g.stackBuf[0] = 0
	g.stackBuf[1] = 0
	g.stackBuf[2] = uint64(align)
	g.stackBuf[3] = uint64(size)
	if err := g.allocFn.CallWithStack(g.ctx, g.stackBuf[:4]); err != nil {
		return 0, err
	}
	return uint32(g.stackBuf[0]), nil
}

func (g *Guest) Free(ptr, size, align uint32) {
	if g.freeFn == nil || ptr == 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	var n int
	if g.isSimpleAlloc {
		g.stackBuf[0] = uint64(ptr)
		n = len(g.freeFn.Definition().ParamTypes())
		g.stackBuf[1] = uint64(size)
		g.stackBuf[2] = uint64(align)
	} else {
		// realloc to zero size
		g.stackBuf[0] = uint64(ptr)
		g.stackBuf[1] = uint64(size)
		g.stackBuf[2] = uint64(align)
		g.stackBuf[3] = 0
		n = 4
	}
	if n > len(g.stackBuf) {
		n = len(g.stackBuf)
	}
	if err := g.freeFn.CallWithStack(g.ctx, g.stackBuf[:max(n, 1)]); err != nil {
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

var _ jsinterop.Allocator = (*Bump)(nil)
var _ jsinterop.Allocator = (*Guest)(nil)
