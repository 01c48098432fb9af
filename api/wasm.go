// Package api includes constants used by both end-users and internal decoder implementations.
package api

import (
	"fmt"
	"sort"
	"strings"
)

// CoreFeatures is a bit flag of WebAssembly core specification features, used to gate which
// post-MVP instruction and type families DecodeConfig will accept while decoding a module.
//
// See https://github.com/WebAssembly/proposals for the proposals these flags correspond to.
type CoreFeatures uint64

const (
	// CoreFeatureMutableGlobal allows globals to be declared mutable. This was already implicit
	// in the binary format's GlobalType encoding, but is called out as its own feature because the
	// MVP text format didn't expose it.
	CoreFeatureMutableGlobal CoreFeatures = 1 << iota
	// CoreFeatureSignExtensionOps enables the sign-extension instructions (i32.extend8_s, etc).
	CoreFeatureSignExtensionOps
	// CoreFeatureMultiValue enables functions and blocks with more than one result type.
	CoreFeatureMultiValue
	// CoreFeatureBulkMemoryOperations enables memory.init, data.drop, memory.copy, memory.fill,
	// table.init, elem.drop and table.copy — the 0xFC-prefixed secondary opcodes 8 through 14.
	CoreFeatureBulkMemoryOperations
	// CoreFeatureReferenceTypes enables funcref/externref value types, the ref.* instructions,
	// table.get/table.set, more than one table, and the table.grow/size/fill family — the
	// 0xFC-prefixed secondary opcodes 15 through 17.
	CoreFeatureReferenceTypes
	// CoreFeatureSIMD is recognized but not decodable: a v128 value type or SIMD opcode is always
	// rejected with ErrInvalidEncoding regardless of whether this flag is set.
	CoreFeatureSIMD
	// CoreFeatureNonTrappingFloatToIntConversion enables the saturating truncation instructions,
	// the 0xFC-prefixed secondary opcodes 0 through 7.
	CoreFeatureNonTrappingFloatToIntConversion
)

// CoreFeaturesV1 is the feature set of the WebAssembly Core Specification 1.0 (MVP).
const CoreFeaturesV1 = CoreFeatureMutableGlobal

// CoreFeaturesV2 is the feature set of the WebAssembly Core Specification 2.0: every proposal this
// decoder understands is enabled.
const CoreFeaturesV2 = CoreFeaturesV1 | CoreFeatureSignExtensionOps | CoreFeatureMultiValue |
	CoreFeatureBulkMemoryOperations | CoreFeatureReferenceTypes | CoreFeatureSIMD |
	CoreFeatureNonTrappingFloatToIntConversion

var coreFeatureNames = map[CoreFeatures]string{
	CoreFeatureMutableGlobal:                   "mutable-global",
	CoreFeatureSignExtensionOps:                "sign-extension-ops",
	CoreFeatureMultiValue:                      "multi-value",
	CoreFeatureBulkMemoryOperations:             "bulk-memory-operations",
	CoreFeatureReferenceTypes:                  "reference-types",
	CoreFeatureSIMD:                            "simd",
	CoreFeatureNonTrappingFloatToIntConversion: "nontrapping-float-to-int-conversion",
}

// IsEnabled returns true if any bit of feature is set in f. The zero value of CoreFeatures can
// never be "enabled": IsEnabled(0) is always false, since there is no bit to test.
func (f CoreFeatures) IsEnabled(feature CoreFeatures) bool {
	return f&feature != 0
}

// SetEnabled sets or clears the feature (or set of features) and returns the updated value.
// CoreFeatures is a value type: callers must assign the result back, e.g. f = f.SetEnabled(x, true).
func (f CoreFeatures) SetEnabled(feature CoreFeatures, enabled bool) CoreFeatures {
	if enabled {
		return f | feature
	}
	return f &^ feature
}

// RequireEnabled returns an error naming feature if it is not set in f.
func (f CoreFeatures) RequireEnabled(feature CoreFeatures) error {
	if !f.IsEnabled(feature) {
		return fmt.Errorf("feature %q is disabled", coreFeatureNames[feature])
	}
	return nil
}

// String renders the set of enabled, named features, pipe-separated and sorted alphabetically.
func (f CoreFeatures) String() string {
	var names []string
	for flag, name := range coreFeatureNames {
		if f.IsEnabled(flag) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}
