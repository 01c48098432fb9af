package wasmdecode

import (
	"github.com/sirupsen/logrus"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm/binary"
)

// DecodeConfig configures a Parse call: which post-MVP instruction and
// value-type families to accept, how large a module byte stream may be
// before decoding refuses it, and where to send decode-time diagnostics.
//
// DecodeConfig is immutable: every With* method returns a modified copy,
// leaving the receiver untouched, so a shared base configuration can be
// safely specialized per call site.
type DecodeConfig struct {
	features           api.CoreFeatures
	maxModuleSizeBytes uint32
	logger             logrus.FieldLogger
}

// NewDecodeConfig returns the default configuration: the WebAssembly Core
// Specification 2.0 feature set, DefaultMaxModuleSizeBytes, and a logger
// that writes to logrus's standard logger.
func NewDecodeConfig() *DecodeConfig {
	return &DecodeConfig{
		features:           api.CoreFeaturesV2,
		maxModuleSizeBytes: binary.DefaultMaxModuleSizeBytes,
		logger:             logrus.StandardLogger(),
	}
}

func (c *DecodeConfig) clone() *DecodeConfig {
	ret := *c
	return &ret
}

// WithFeatures replaces the enabled feature set entirely.
func (c *DecodeConfig) WithFeatures(features api.CoreFeatures) *DecodeConfig {
	ret := c.clone()
	ret.features = features
	return ret
}

// WithMaxModuleSizeBytes bounds the outer module byte stream Parse will read
// before refusing to continue.
func (c *DecodeConfig) WithMaxModuleSizeBytes(n uint32) *DecodeConfig {
	ret := c.clone()
	ret.maxModuleSizeBytes = n
	return ret
}

// WithLogger routes decode-time diagnostics (skipped unrecognized sections,
// malformed name subsections) to logger instead of logrus's standard logger.
func (c *DecodeConfig) WithLogger(logger logrus.FieldLogger) *DecodeConfig {
	ret := c.clone()
	ret.logger = logger
	return ret
}
