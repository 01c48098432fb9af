package wasm

import "sync"

// Arena is the single owner of every byte slice a decoded Module
// references. Go's garbage collector already reclaims memory, so Arena has
// no allocator internals of its own (that's out of scope per the decoder's
// design) — what it gives Parse is a single release point: dropping every
// reference Arena tracks is what lets a Module (and everything it points
// to) become collectible in one step, the same guarantee a non-GC host
// would have to implement by hand.
type Arena struct {
	mu       sync.Mutex
	released bool
	owned    [][]byte
}

// NewArena creates an empty, unreleased arena. One Arena is created per
// Parse call and handed down to every allocating decoder.
func NewArena() *Arena {
	return &Arena{}
}

// AllocBytes returns a fresh n-byte buffer owned by this arena. Decoders
// use this for every byte-vector field that ends up inside the returned
// Module: names, custom section payloads, data segment payloads.
func (a *Arena) AllocBytes(n int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		panic("wasm: arena used after release")
	}
	b := make([]byte, n)
	a.owned = append(a.owned, b)
	return b
}

// Release drops every reference this arena holds. A Module built from this
// arena must not be read or retained after Release returns.
func (a *Arena) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.owned = nil
	a.released = true
}

// Released reports whether Release has already been called.
func (a *Arena) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

// AllocationCount returns the number of byte buffers currently tracked;
// exposed for tests that assert ownership rather than for production use.
func (a *Arena) AllocationCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.owned)
}
