package image

import (
	"bufio"
	"fmt"
	"io"
)

// WriteHexDump prints data as rows of width bytes, each prefixed with the
// address of its first byte.
func WriteHexDump(w io.Writer, start uint16, data []byte, width int) error {
	if width <= 0 {
		width = BytesPerRecord
	}

	bw := bufio.NewWriter(w)
	for off := 0; off < len(data); off += width {
		end := off + width
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(bw, "0x%04X:", (int(start)+off)&0xFFFF)
		for _, b := range data[off:end] {
			fmt.Fprintf(bw, " %02X", b)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// DumpWidth is the widest power-of-two row that fits in cols terminal
// columns, between 8 and 32 bytes.
func DumpWidth(cols int) int {
	width := 32
	for width > 8 && len("0xFFFF:")+3*width > cols {
		width /= 2
	}
	return width
}
