package protocol

import "fmt"

// Checksum returns the sum of the byte values of s, modulo 256.
// An empty string has checksum 0.
func Checksum(s string) byte {
	var sum byte
	for i := 0; i < len(s); i++ {
		sum += s[i]
	}
	return sum
}

// appendChecksum appends the two-digit checksum of s to s.
func appendChecksum(s string) string {
	return s + fmt.Sprintf("%02X", Checksum(s))
}
