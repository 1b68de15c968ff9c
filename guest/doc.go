// Package guest runs a component implementation compiled to WebAssembly.
//
// The Implementation boundary is language-agnostic: the backing logic is
// typically produced by another toolchain and exposed across the WASM
// boundary as a core module. This package loads such a module with wazero
// and adapts it to the celbridge Implementation interface.
//
// # Export Contract
//
// The guest module must export the four lifecycle functions plus the
// observed-attribute query:
//
//	connected(elem: u32) -> u32            allocate state, return handle
//	disconnected(elem: u32, handle: u32)   release state
//	adopted(elem: u32)                     document move notification
//	attribute-changed(elem: u32, handle: u32)
//	observed-attributes() -> u32           pointer to name list in memory
//	observed-attributes-len() -> u32       byte length of the name list
//
// The name list is newline-separated UTF-8. Underscore spellings
// (attribute_changed, observed_attributes, ...) are accepted for
// toolchains that cannot emit hyphenated export names. Signatures are
// validated at load time; a missing or mistyped export fails Load, not the
// first dispatch.
//
// Elements are named to the guest by a u32 id the loader allocates per
// element; handles returned by connected pass through the bridge
// untouched, so the guest is free to use pointers into its own memory.
//
// # Host Imports
//
// The loader provides a small "celbridge" host module:
//
//	log(ptr: u32, len: u32)                         structured log line
//	attr(elem: u32, ptr: u32, len: u32,
//	     dst: u32, cap: u32) -> s32                 copy attribute value
//
// attr copies the named attribute's value into guest memory at dst,
// returning the byte count, -1 when the attribute is absent, or -2 when
// cap is too small.
package guest
