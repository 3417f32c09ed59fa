// Package handle provides the per-session handle table used for values
// that cross the script boundary by identity.
//
// Host objects are held by the Go side only as a handle into the table;
// Go values exposed to scripts are interned so the same value always maps
// to the same handle.
//
//	table := handle.NewTable()
//
//	h, _ := table.Acquire(handle.KindHostObject, obj) // refs = 1
//	_ = table.Retain(h)                                // refs = 2
//	_, _ = table.Release(h)                            // refs = 1
//	dropped, _ := table.Release(h)                     // dropped, Dropper runs
//
// Handle 0 is never issued. Released slots are reused, so a handle must
// not be used after its last Release.
//
// Observers receive acquire, retain, release and drop events:
//
//	table.Subscribe(handle.NewLogObserver(logger))
package handle
