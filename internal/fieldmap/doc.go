// Package fieldmap is the static memory map of the Gicar board used in the
// Ascaso Baby T: one FieldSpec per named setting, state flag or counter.
//
// Offsets in this package are absolute device addresses, which is what write
// commands use. A read response does not start at address zero; its header
// carries the start address and readers must subtract it before indexing
// the payload. Writers must not. See memory.Image.OffsetAdjustment.
package fieldmap
