// Package wasmdecode decodes the WebAssembly binary module format into an
// in-memory Module tree: magic/version envelope, every MVP section, and the
// bulk-memory, reference-types, sign-extension and non-trapping
// float-to-int-conversion post-MVP instruction families. It does not
// validate, instantiate or execute a module — see SPEC_FULL.md in the
// repository root for the decoder's full scope.
package wasmdecode
