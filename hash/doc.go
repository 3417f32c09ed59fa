// Package hash wraps incremental digest providers behind a small state
// machine.
//
// A Provider couples finalize and reinitialize into one call. Hasher keeps
// that contract: after Finalize the provider is already reset, so a second
// Finalize without Append returns the digest of empty input.
//
//	h, _ := hash.New("sha384")
//	h.Append(data)
//	sum, _ := h.Finalize()
//
// The context variants run the provider call on a goroutine. If the
// context ends while the call is running the hasher is faulted and must be
// Reset before further use.
package hash
