package decode

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrEAGAIN is returned by ReadFrame when no decoded frame is buffered yet.
	ErrEAGAIN            = errors.New("EAGAIN")
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	ErrShortFrame        = errors.New("frame shorter than format requires")
	ErrCorruptFrame      = errors.New("corrupt frame")
)

// VideoDecoder turns compressed or raw capture buffers into images.
type VideoDecoder interface {
	Write(pkt []byte) (int, error)
	ReadFrame() (image.Image, error)
	Close() error
}

// NewDecoder returns a decoder for frames with the given FourCC and size.
func NewDecoder(fourcc [4]byte, width, height int) (VideoDecoder, error) {
	switch fourcc {
	case [4]byte{'M', 'J', 'P', 'G'}, [4]byte{'J', 'P', 'E', 'G'}, [4]byte{'m', 'j', 'p', 'g'}:
		return NewMJPEGDecoder()
	case [4]byte{'Y', 'U', 'Y', 'V'}, [4]byte{'Y', 'U', 'Y', '2'},
		[4]byte{'I', '4', '2', '0'}, [4]byte{'Y', 'U', '1', '2'},
		[4]byte{'R', 'G', 'B', '3'}, [4]byte{'B', 'G', 'R', '3'}:
		return NewUncompressedDecoder(fourcc, width, height)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fourcc[:])
}

// Decode writes one buffer to d and returns the frame it produced.
func Decode(d VideoDecoder, pkt []byte) (image.Image, error) {
	if _, err := d.Write(pkt); err != nil {
		return nil, err
	}
	return d.ReadFrame()
}
