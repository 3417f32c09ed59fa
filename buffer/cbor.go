package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/jsinterop/errors"
)

// RFC 8746 typed-array tags, little-endian variants.
const (
	TagUint8     uint64 = 64
	TagUint16LE  uint64 = 69
	TagUint32LE  uint64 = 70
	TagSint8     uint64 = 72
	TagSint16LE  uint64 = 77
	TagSint32LE  uint64 = 78
	TagFloat32LE uint64 = 85
	TagFloat64LE uint64 = 86
)

var kindTags = map[Kind]uint64{
	Int8:    TagSint8,
	Uint8:   TagUint8,
	Int16:   TagSint16LE,
	Uint16:  TagUint16LE,
	Int32:   TagSint32LE,
	Uint32:  TagUint32LE,
	Float32: TagFloat32LE,
	Float64: TagFloat64LE,
}

var tagKinds = func() map[uint64]Kind {
	m := make(map[uint64]Kind, len(kindTags))
	for k, t := range kindTags {
		m[t] = k
	}
	return m
}()

// Tag returns the RFC 8746 tag number for k.
func (k Kind) Tag() (uint64, bool) {
	t, ok := kindTags[k]
	return t, ok
}

var nativeLittle = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// MarshalCBOR encodes the view as a tagged byte string, little-endian.
func (v View) MarshalCBOR() ([]byte, error) {
	tag, ok := v.kind.Tag()
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseEncode, "cannot encode view of kind "+v.kind.String())
	}
	return cbor.Marshal(cbor.Tag{Number: tag, Content: swapOrder(v.data, v.kind.Width())})
}

// UnmarshalCBOR decodes a typed-array tag into the view.
func (v *View) UnmarshalCBOR(data []byte) error {
	var raw cbor.RawTag
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "typed array tag")
	}
	kind, ok := tagKinds[raw.Number]
	if !ok {
		return errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("unsupported typed array tag %d", raw.Number))
	}

	var b []byte
	if err := cbor.Unmarshal(raw.Content, &b); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "typed array content")
	}
	if len(b)%kind.Width() != 0 {
		return errors.BufferLengthMismatch(errors.PhaseDecode, kind.Constructor(), len(b), kind.Width())
	}

	v.kind = kind
	v.data = swapOrder(b, kind.Width())
	return nil
}

// swapOrder converts between native and little-endian order. It always
// returns a fresh slice.
func swapOrder(b []byte, width int) []byte {
	out := clone(b)
	if nativeLittle || width <= 1 {
		return out
	}
	for off := 0; off+width <= len(out); off += width {
		e := out[off : off+width]
		for i, j := 0, width-1; i < j; i, j = i+1, j-1 {
			e[i], e[j] = e[j], e[i]
		}
	}
	return out
}

// LittleEndian returns a copy of the element bytes in little-endian order,
// the layout of CBOR typed arrays and WebAssembly memory.
func (v View) LittleEndian() []byte {
	return swapOrder(v.data, v.kind.Width())
}

// FromLittleEndian copies little-endian element bytes into a view.
func FromLittleEndian(kind Kind, data []byte) (View, error) {
	v, err := New(kind, data)
	if err != nil {
		return View{}, err
	}
	v.data = swapOrder(v.data, kind.Width())
	return v, nil
}
