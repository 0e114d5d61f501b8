package image

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BytesPerRecord is the number of data bytes WriteASCIIHex puts on a line.
const BytesPerRecord = 16

// ParseASCIIHex reads records of the form "#AAAA,hh,hh,...". Each record must
// start where the previous one ended. Blank lines are skipped, and a leading
// '[' or a trailing ',' is tolerated.
func ParseASCIIHex(r io.Reader) (Image, error) {
	var img Image
	started := false

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		text = strings.TrimPrefix(text, "[")
		if text == "" {
			continue
		}
		if !strings.HasPrefix(text, "#") {
			return Image{}, fmt.Errorf("%w: line %d: missing '#'", ErrSyntax, line)
		}

		fields := strings.Split(strings.TrimSuffix(text[1:], ","), ",")
		addr, err := strconv.ParseUint(fields[0], 16, 32)
		if err != nil {
			return Image{}, fmt.Errorf("%w: line %d: address %q", ErrSyntax, line, fields[0])
		}

		if !started {
			if addr >= MaxSize {
				return Image{}, fmt.Errorf("%w: line %d: address 0x%X", ErrImageTooLarge, line, addr)
			}
			img.Start = uint16(addr)
			started = true
		} else if int(addr) != img.End() {
			return Image{}, fmt.Errorf("%w: line %d: expected 0x%04X, got 0x%04X", ErrNotContiguous, line, img.End(), addr)
		}

		for _, f := range fields[1:] {
			v, err := strconv.ParseUint(strings.TrimSpace(f), 16, 8)
			if err != nil {
				return Image{}, fmt.Errorf("%w: line %d: byte %q", ErrSyntax, line, f)
			}
			img.Data = append(img.Data, uint8(v))
		}
		if img.End() > MaxSize {
			return Image{}, fmt.Errorf("%w: line %d", ErrImageTooLarge, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Image{}, err
	}
	return img, nil
}

// WriteASCIIHex writes img as records of BytesPerRecord bytes.
func WriteASCIIHex(w io.Writer, img Image) error {
	bw := bufio.NewWriter(w)
	for off := 0; off < len(img.Data); off += BytesPerRecord {
		end := off + BytesPerRecord
		if end > len(img.Data) {
			end = len(img.Data)
		}
		fmt.Fprintf(bw, "#%04X", int(img.Start)+off)
		for _, b := range img.Data[off:end] {
			fmt.Fprintf(bw, ",%02X", b)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
