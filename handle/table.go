package handle

import (
	"errors"
	"sync"
)

var (
	ErrClosed        = errors.New("handle table closed")
	ErrInvalidHandle = errors.New("invalid handle")
)

type entry struct {
	value any
	key   any
	refs  uint32
	kind  Kind
	valid bool
}

// Table maps handles to values with reference counting. A handle is
// acquired with one reference; Retain adds one and Release drops one.
// The value is dropped when the count reaches zero.
//
// The mutex only guards the table itself. Callers serialize use of the
// values behind the handles.
type Table struct {
	entries   []entry
	freeList  []Handle
	index     map[any]Handle
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
		index:    make(map[any]Handle),
	}
}

// Acquire stores value and returns a handle holding one reference.
func (t *Table) Acquire(kind Kind, value any) (Handle, error) {
	t.mu.Lock()
	h, err := t.insert(kind, nil, value)
	t.mu.Unlock()
	if err != nil {
		return 0, err
	}
	t.notify(Event{Type: EventAcquired, Handle: h, Kind: kind, Value: value, Refs: 1})
	return h, nil
}

// Intern returns the live handle registered under key, adding a
// reference, or acquires a new one for value. key must be comparable.
// Interning gives a value the same handle every time it crosses.
func (t *Table) Intern(kind Kind, key, value any) (Handle, error) {
	t.mu.Lock()
	if h, ok := t.index[key]; ok {
		e := &t.entries[h-1]
		e.refs++
		ev := Event{Type: EventRetained, Handle: h, Kind: e.kind, Value: e.value, Refs: e.refs}
		t.mu.Unlock()
		t.notify(ev)
		return h, nil
	}
	h, err := t.insert(kind, key, value)
	t.mu.Unlock()
	if err != nil {
		return 0, err
	}
	t.notify(Event{Type: EventAcquired, Handle: h, Kind: kind, Value: value, Refs: 1})
	return h, nil
}

// insert stores a new entry. Callers hold mu.
func (t *Table) insert(kind Kind, key, value any) (Handle, error) {
	if t.closed {
		return 0, ErrClosed
	}

	e := entry{kind: kind, value: value, key: key, refs: 1, valid: true}

	var h Handle
	if len(t.freeList) > 0 {
		h = t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = Handle(len(t.entries))
	}
	if key != nil {
		t.index[key] = h
	}
	return h, nil
}

// Lookup returns the live handle interned under key.
func (t *Table) Lookup(key any) (Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.index[key]
	return h, ok
}

// lookup returns the live entry for h. Callers hold mu.
func (t *Table) lookup(h Handle) *entry {
	if h == 0 || int(h) > len(t.entries) {
		return nil
	}
	e := &t.entries[h-1]
	if !e.valid {
		return nil
	}
	return e
}

// Get returns the value behind h.
func (t *Table) Get(h Handle) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.lookup(h)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// GetKind returns the value behind h only if it has the expected kind.
func (t *Table) GetKind(h Handle, kind Kind) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.lookup(h)
	if e == nil || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// Refs returns the reference count of h, or 0 if h is not live.
func (t *Table) Refs(h Handle) uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if e := t.lookup(h); e != nil {
		return e.refs
	}
	return 0
}

// Retain adds a reference to h.
func (t *Table) Retain(h Handle) error {
	t.mu.Lock()
	e := t.lookup(h)
	if e == nil {
		t.mu.Unlock()
		return ErrInvalidHandle
	}
	e.refs++
	ev := Event{Type: EventRetained, Handle: h, Kind: e.kind, Value: e.value, Refs: e.refs}
	t.mu.Unlock()

	t.notify(ev)
	return nil
}

// Release drops one reference to h. It reports whether the value was
// dropped, in which case its Dropper (if any) has run.
func (t *Table) Release(h Handle) (dropped bool, err error) {
	t.mu.Lock()
	e := t.lookup(h)
	if e == nil {
		t.mu.Unlock()
		return false, ErrInvalidHandle
	}
	e.refs--
	if e.refs > 0 {
		ev := Event{Type: EventReleased, Handle: h, Kind: e.kind, Value: e.value, Refs: e.refs}
		t.mu.Unlock()
		t.notify(ev)
		return false, nil
	}

	value, kind := t.free(h, e)
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: h, Kind: kind, Value: value})
	return true, nil
}

// free invalidates e and recycles h. Callers hold mu.
func (t *Table) free(h Handle, e *entry) (any, Kind) {
	value, kind := e.value, e.kind
	if e.key != nil {
		delete(t.index, e.key)
	}
	*e = entry{}
	t.freeList = append(t.freeList, h)
	return value, kind
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over live handles until fn returns false.
func (t *Table) Each(fn func(Handle, Kind, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, e := range t.entries {
		if e.valid {
			if !fn(Handle(i+1), e.kind, e.value) {
				break
			}
		}
	}
}

// Clear drops every live handle regardless of its reference count.
func (t *Table) Clear() {
	type dropped struct {
		value any
		h     Handle
		kind  Kind
	}
	var out []dropped

	t.mu.Lock()
	for i := range t.entries {
		if t.entries[i].valid {
			h := Handle(i + 1)
			v, k := t.free(h, &t.entries[i])
			out = append(out, dropped{value: v, h: h, kind: k})
		}
	}
	t.mu.Unlock()

	for _, d := range out {
		if dr, ok := d.value.(Dropper); ok {
			dr.Drop()
		}
		t.notify(Event{Type: EventDropped, Handle: d.h, Kind: d.kind, Value: d.value})
	}
}

// Close drops every handle and rejects further acquisitions.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.Clear()
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}
