package protocol

// Frame markers.
const (
	// ReadMarker starts read requests and read responses.
	ReadMarker = 'r'

	// WriteMarker starts write commands.
	WriteMarker = 'w'
)

// Frame geometry.
const (
	// HeaderSize is the length of the "r"/"w" + offset + length prefix.
	HeaderSize = 9

	// ChecksumSize is the length of the trailing hex checksum.
	ChecksumSize = 2

	// MinResponseSize is the shortest acceptable read response.
	MinResponseSize = HeaderSize + ChecksumSize

	// MaxFieldValue is the largest value a 4-hex-digit header field can carry.
	MaxFieldValue = 0xFFFF
)

// ReadRequestBase is the only read request this board model answers:
// start address 0x0005, length 0x00D7 (215 bytes).
const ReadRequestBase = "r000500D7"

// DefaultResponse is a known-good read response captured from a Baby T Plus.
// It is used when neither a live device nor a saved snapshot is available.
const DefaultResponse = "r000500D7" +
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF" +
	"0101020200010100011E1E1E1E002600282D000000A2031E000F0028000A00" +
	"E30450000F006400050078000002D101000102F2032D00010101000068006A008E006801" +
	"70176E00DC0096002C0170176E00DC0096002C017017080C1001010164646464000600010000000000000000000000000000000200000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000030000009E1E00009E1E00000000" +
	"E7"
