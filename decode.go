package wasmdecode

import (
	"io"

	"github.com/wazerocore/wasmdecode/internal/wasm"
	"github.com/wazerocore/wasmdecode/internal/wasm/binary"
)

// Result is the decoded form of a module plus the arena that owns its
// storage. Call Release once the Module is no longer needed; the Module
// must never be read after Release returns.
type Result = wasm.Result

// Module is the complete decoded form of a WebAssembly binary module.
type Module = wasm.Module

// Parse decodes a WebAssembly binary module from r using the default
// DecodeConfig (Core Specification 2.0 feature set).
func Parse(r io.Reader) (*Result, error) {
	return ParseWithConfig(r, NewDecodeConfig())
}

// ParseWithConfig decodes a WebAssembly binary module from r using config.
func ParseWithConfig(r io.Reader, config *DecodeConfig) (*Result, error) {
	return binary.DecodeModule(r, config.features, config.maxModuleSizeBytes, config.logger)
}
