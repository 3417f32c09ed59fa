package memory

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/buffer"
)

// scratchModule exports one page of memory as "memory" and nothing else.
var scratchModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

// Scratch is a standalone linear memory with a bump allocator, for staging
// typed buffers without a guest program.
type Scratch struct {
	rt    wazero.Runtime
	mem   *Wazero
	alloc *Bump
}

// NewScratch instantiates a one-page memory. Close releases it.
func NewScratch(ctx context.Context) (*Scratch, error) {
	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, scratchModule)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate scratch memory: %w", err)
	}
	mem, err := FromModule(mod)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	return &Scratch{rt: rt, mem: mem, alloc: NewBump(mem, 8)}, nil
}

// Memory returns the scratch memory.
func (s *Scratch) Memory() *Wazero { return s.mem }

// Allocator returns the scratch allocator.
func (s *Scratch) Allocator() *Bump { return s.alloc }

// Stage copies v into memory and reads it back as kind. The region is
// released before returning.
func (s *Scratch) Stage(v buffer.View, kind buffer.Kind) (buffer.View, Region, error) {
	r, err := Store(s.mem, s.alloc, v)
	if err != nil {
		return buffer.View{}, Region{}, err
	}
	defer Release(s.alloc, r)

	out, err := Load(s.mem, r, kind)
	if err != nil {
		return buffer.View{}, r, err
	}
	Logger().Debug("staged typed buffer",
		zap.Uint32("ptr", r.Ptr),
		zap.Uint32("size", r.Size),
		zap.Stringer("from", v.Kind()),
		zap.Stringer("to", kind))
	return out, r, nil
}

func (s *Scratch) Close(ctx context.Context) error {
	return s.rt.Close(ctx)
}
