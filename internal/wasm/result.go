package wasm

// Result pairs a decoded Module with the Arena that owns its storage.
// Result is the sole owner of the Arena: releasing Result releases every
// Module field in one step. The Module must never be read after Result is
// released.
type Result struct {
	Module *Module
	arena  *Arena
}

// NewResult wraps module and arena into a Result that owns both.
func NewResult(module *Module, arena *Arena) *Result {
	return &Result{Module: module, arena: arena}
}

// Release frees every byte the decode allocated and clears Module so that
// accidental use-after-release panics loudly instead of reading freed
// arena state.
func (r *Result) Release() {
	if r.arena != nil {
		r.arena.Release()
	}
	r.Module = nil
}

// Released reports whether Release has already been called.
func (r *Result) Released() bool {
	return r.arena == nil || r.arena.Released()
}
