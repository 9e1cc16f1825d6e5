// Package codec turns a memory image into named values and back.
//
// Decoding reads catalog offsets minus the image's offset adjustment and
// reports absence, not errors, for fields the payload does not cover.
// Encoding writes at absolute catalog offsets, never adjusted, and always
// reports violations: a write that silently did nothing could hide a failed
// temperature change.
//
// Decoder and encoder are stateless; all state lives in the memory.Image
// passed to them.
package codec
