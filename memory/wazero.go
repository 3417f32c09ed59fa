package memory

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/jsinterop"
)

// PageSize is the WebAssembly page size in bytes.
const PageSize = 65536

// Wazero wraps a wazero memory to implement jsinterop.Memory.
type Wazero struct {
	mem api.Memory
}

// NewWazero wraps mem.
func NewWazero(mem api.Memory) *Wazero {
	return &Wazero{mem: mem}
}

// FromModule wraps the memory exported by mod, or returns an error when
// the module exports none.
func FromModule(mod api.Module) (*Wazero, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, fmt.Errorf("module %q exports no memory", mod.Name())
	}
	return &Wazero{mem: mem}, nil
}

// Read copies length bytes at offset out of guest memory.
func (m *Wazero) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Wazero) Write(offset uint32, data []byte) error {
	ok := m.mem.Write(offset, data)
	if !ok {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *Wazero) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds")
	}
	return val, nil
}

func (m *Wazero) WriteU32(offset uint32, value uint32) error {
	ok := m.mem.WriteUint32Le(offset, value)
	if !ok {
		return fmt.Errorf("write out of bounds")
	}
	return nil
}

func (m *Wazero) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Grow grows memory by delta pages and returns the previous page count.
func (m *Wazero) Grow(deltaPages uint32) (uint32, error) {
	prev, ok := m.mem.Grow(deltaPages)
	if !ok {
		return 0, fmt.Errorf("grow by %d pages failed", deltaPages)
	}
	return prev, nil
}

var _ jsinterop.Memory = (*Wazero)(nil)
var _ jsinterop.MemorySizer = (*Wazero)(nil)
