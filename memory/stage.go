package memory

import (
	"github.com/wippyai/jsinterop"
	"github.com/wippyai/jsinterop/buffer"
	"github.com/wippyai/jsinterop/errors"
)

// Region is a typed buffer staged in linear memory.
type Region struct {
	Ptr  uint32
	Size uint32
	Kind buffer.Kind
}

// Len returns the element count of the region.
func (r Region) Len() int {
	if !r.Kind.Valid() {
		return 0
	}
	return int(r.Size) / r.Kind.Width()
}

// Store allocates a region aligned to the element width and copies v into
// it in little-endian order.
func Store(mem jsinterop.Memory, alloc jsinterop.Allocator, v buffer.View) (Region, error) {
	if !v.Kind().Valid() {
		return Region{}, errors.InvalidInput(errors.PhaseEncode, "cannot stage view of kind "+v.Kind().String())
	}
	size := uint32(v.ByteLength())
	align := uint32(v.Kind().Width())

	ptr, err := alloc.Alloc(size, align)
	if err != nil {
		return Region{}, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "allocate typed buffer")
	}
	if err := mem.Write(ptr, v.LittleEndian()); err != nil {
		alloc.Free(ptr, size, align)
		return Region{}, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "write typed buffer")
	}
	return Region{Ptr: ptr, Size: size, Kind: v.Kind()}, nil
}

// Load copies a region back out of linear memory as a view of kind. The
// region size must be a multiple of the kind's width, so a region can be
// reloaded under a different element kind.
func Load(mem jsinterop.Memory, r Region, kind buffer.Kind) (buffer.View, error) {
	if !kind.Valid() {
		return buffer.View{}, errors.InvalidInput(errors.PhaseDecode, "invalid element kind "+kind.String())
	}
	if int(r.Size)%kind.Width() != 0 {
		return buffer.View{}, errors.BufferLengthMismatch(errors.PhaseDecode, kind.Constructor(), int(r.Size), kind.Width())
	}
	data, err := mem.Read(r.Ptr, r.Size)
	if err != nil {
		return buffer.View{}, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "read typed buffer")
	}
	return buffer.FromLittleEndian(kind, data)
}

// Release frees the region through alloc.
func Release(alloc jsinterop.Allocator, r Region) {
	alloc.Free(r.Ptr, r.Size, uint32(r.Kind.Width()))
}
