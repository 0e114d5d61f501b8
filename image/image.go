// Package image reads and writes EEPROM program images: raw binaries,
// ASCII-hex records and hex dump listings.
package image

import (
	"errors"
	"fmt"
	"io"
)

// MaxSize is the largest image addressable with 16 bits.
const MaxSize = 0x10000

var (
	ErrImageTooLarge = errors.New("image exceeds address space")
	ErrSyntax        = errors.New("malformed record")
	ErrNotContiguous = errors.New("records are not contiguous")
)

// Image is a block of bytes destined for consecutive addresses.
type Image struct {
	Start uint16
	Data  []byte
}

// End is one past the last address covered by the image.
func (img Image) End() int {
	return int(img.Start) + len(img.Data)
}

func (img Image) String() string {
	if len(img.Data) == 0 {
		return fmt.Sprintf("empty image at 0x%04X", img.Start)
	}
	return fmt.Sprintf("%d bytes at 0x%04X-0x%04X", len(img.Data), img.Start, img.End()-1)
}

// ReadBinary loads a raw image to be placed at start.
func ReadBinary(r io.Reader, start uint16) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize-int64(start)+1))
	if err != nil {
		return Image{}, err
	}
	img := Image{Start: start, Data: data}
	if img.End() > MaxSize {
		return Image{}, fmt.Errorf("%w: %s", ErrImageTooLarge, img)
	}
	return img, nil
}
