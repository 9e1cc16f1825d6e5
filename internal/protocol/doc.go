// Package protocol implements the ASCII framing used by the Gicar control
// board found in Ascaso Baby T espresso machines.
//
// Every frame is printable ASCII. Binary data travels as two uppercase hex
// digits per byte and each frame ends with a two-digit checksum:
//
//	Read request:  r OOOO LLLL CC
//	Read response: r OOOO LLLL DATA... CC
//	Write command: w OOOO LLLL DATA... CC
//
// Where:
//   - OOOO = start address, 4 hex digits
//   - LLLL = data length in bytes, 4 hex digits
//   - DATA = hex-encoded bytes
//   - CC   = sum of every preceding character, modulo 256, 2 hex digits
//
// The first nine characters of a read response are its header. The start
// address inside that header is the offset adjustment used to translate
// catalog addresses into payload positions (see package memory).
//
// The checksum is a plain additive code. It does not detect reordered
// characters or substitutions that preserve the sum, and that behaviour is
// reproduced exactly because the device expects it.
package protocol
