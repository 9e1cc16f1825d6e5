package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/protocol"
)

const dumpLineLen = 16

// HexDump prints data as "OFFS: hex | ascii", 16 bytes per line.
func HexDump(w io.Writer, data []byte) error {
	ew := &errWriter{w: w}
	for i := 0; i < len(data); i += dumpLineLen {
		end := min(i+dumpLineLen, len(data))
		chunk := data[i:end]

		hex := make([]string, len(chunk))
		ascii := make([]byte, len(chunk))
		for j, b := range chunk {
			hex[j] = fmt.Sprintf("%02X", b)
			if b >= 32 && b <= 126 {
				ascii[j] = b
			} else {
				ascii[j] = '.'
			}
		}
		ew.printf("%04X: %-*s | %s\n", i, 3*dumpLineLen, strings.Join(hex, " "), ascii)
	}
	return ew.err
}

// Command breaks a write command down field by field.
func Command(w io.Writer, cmd protocol.WriteCommand) error {
	ew := &errWriter{w: w}
	data := cmd.Data()

	ew.printf("Command: %s\n", cmd)
	ew.printf("Type: Write\n")
	ew.printf("Offset: 0x%04X (%d)\n", cmd.Start, cmd.Start)
	ew.printf("Length: 0x%04X (%d)\n", cmd.Length, cmd.Length)
	ew.printf("Data: %s\n", protocol.EncodeHex(data))
	ew.printf("Checksum: %02X\n", cmd.Checksum())

	if cmd.Length <= 16 {
		vals := make([]string, len(data))
		for i, b := range data {
			vals[i] = fmt.Sprintf("%d", b)
		}
		ew.printf("Bytes: [%s]\n", strings.Join(vals, ", "))
	}
	return ew.err
}

// RawValue reports a value peeked at a catalog address.
func RawValue(w io.Writer, offset int, width fieldmap.Width, value uint64, adjustment int) error {
	ew := &errWriter{w: w}
	adjusted := offset - adjustment

	ew.printf("Memory offset 0x%04X (%d):\n", offset, offset)
	ew.printf("  Adjusted offset: 0x%04X (%d)\n", adjusted, adjusted)
	ew.printf("  Value: %d (0x%X)\n", value, value)
	ew.printf("  Size: %d bytes\n", width)

	if specs := fieldmap.AtOffset(offset); len(specs) > 0 {
		names := make([]string, len(specs))
		for i, s := range specs {
			names[i] = s.Name
		}
		ew.printf("  Matches known key(s): %s\n", strings.Join(names, ", "))
	}
	return ew.err
}

// Fields lists the field map for help output.
func Fields(w io.Writer) error {
	ew := &errWriter{w: w}
	for _, spec := range fieldmap.All() {
		var kind string
		switch {
		case spec.Scaled():
			kind = fmt.Sprintf("x%g", spec.Scale)
		case spec.Mapped():
			kind = strings.Join(spec.Labels(), "|")
		default:
			kind = "integer"
		}
		if spec.ReadOnly {
			kind += ", read-only"
		}
		ew.printf("  %-22s %3d %-5s %s\n", spec.Name, spec.Offset, spec.Width, kind)
	}
	return ew.err
}
