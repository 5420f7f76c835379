package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

const (
	markerDHT = 0xc4
	markerSOI = 0xd8
	markerSOS = 0xda
)

// standard Huffman tables (ITU T.81 Annex K.3) as class/id, code counts, values
var mjpegHuffmanTables = []struct {
	class  byte
	counts [16]byte
	values []byte
}{
	{0x00, [16]byte{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		[]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	{0x10, [16]byte{0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 125},
		[]byte{
			0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12,
			0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
			0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xa1, 0x08,
			0x23, 0x42, 0xb1, 0xc1, 0x15, 0x52, 0xd1, 0xf0,
			0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0a, 0x16,
			0x17, 0x18, 0x19, 0x1a, 0x25, 0x26, 0x27, 0x28,
			0x29, 0x2a, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
			0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
			0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59,
			0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
			0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79,
			0x7a, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
			0x8a, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
			0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
			0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6,
			0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3, 0xc4, 0xc5,
			0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2, 0xd3, 0xd4,
			0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda, 0xe1, 0xe2,
			0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0xea,
			0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
			0xf9, 0xfa,
		}},
	{0x01, [16]byte{0, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
		[]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	{0x11, [16]byte{0, 2, 1, 2, 4, 4, 3, 4, 7, 5, 4, 4, 0, 1, 2, 119},
		[]byte{
			0x00, 0x01, 0x02, 0x03, 0x11, 0x04, 0x05, 0x21,
			0x31, 0x06, 0x12, 0x41, 0x51, 0x07, 0x61, 0x71,
			0x13, 0x22, 0x32, 0x81, 0x08, 0x14, 0x42, 0x91,
			0xa1, 0xb1, 0xc1, 0x09, 0x23, 0x33, 0x52, 0xf0,
			0x15, 0x62, 0x72, 0xd1, 0x0a, 0x16, 0x24, 0x34,
			0xe1, 0x25, 0xf1, 0x17, 0x18, 0x19, 0x1a, 0x26,
			0x27, 0x28, 0x29, 0x2a, 0x35, 0x36, 0x37, 0x38,
			0x39, 0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48,
			0x49, 0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58,
			0x59, 0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68,
			0x69, 0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78,
			0x79, 0x7a, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
			0x88, 0x89, 0x8a, 0x92, 0x93, 0x94, 0x95, 0x96,
			0x97, 0x98, 0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5,
			0xa6, 0xa7, 0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4,
			0xb5, 0xb6, 0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3,
			0xc4, 0xc5, 0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2,
			0xd3, 0xd4, 0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda,
			0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9,
			0xea, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
			0xf9, 0xfa,
		}},
}

var mjpegDHT = buildDHT()

func buildDHT() []byte {
	length := 2
	for _, t := range mjpegHuffmanTables {
		length += 1 + len(t.counts) + len(t.values)
	}
	seg := []byte{0xff, markerDHT, byte(length >> 8), byte(length)}
	for _, t := range mjpegHuffmanTables {
		seg = append(seg, t.class)
		seg = append(seg, t.counts[:]...)
		seg = append(seg, t.values...)
	}
	return seg
}

// withHuffmanTables returns pkt with the standard tables inserted before the
// first scan when the frame carries none. Many UVC cameras send such
// abbreviated frames, which image/jpeg rejects.
func withHuffmanTables(pkt []byte) []byte {
	for i := 2; i+4 <= len(pkt); {
		if pkt[i] != 0xff {
			return pkt
		}
		switch m := pkt[i+1]; {
		case m == 0xff:
			i++
		case m == markerDHT:
			return pkt
		case m == markerSOS:
			out := make([]byte, 0, len(pkt)+len(mjpegDHT))
			out = append(out, pkt[:i]...)
			out = append(out, mjpegDHT...)
			return append(out, pkt[i:]...)
		case m >= 0xd0 && m <= 0xd7, m == 0x01:
			i += 2
		default:
			n := int(pkt[i+2])<<8 | int(pkt[i+3])
			if n < 2 {
				return pkt
			}
			i += 2 + n
		}
	}
	return pkt
}

// MJPEGDecoder decodes one JPEG image per capture buffer. V4L2 drivers
// deliver whole frames, so no reassembly is needed.
type MJPEGDecoder struct {
	images []image.Image
}

func NewMJPEGDecoder() (*MJPEGDecoder, error) {
	return &MJPEGDecoder{}, nil
}

func (d *MJPEGDecoder) Write(pkt []byte) (int, error) {
	if len(pkt) < 4 || pkt[0] != 0xff || pkt[1] != markerSOI {
		return 0, fmt.Errorf("%w: %d bytes without JPEG start marker", ErrCorruptFrame, len(pkt))
	}
	img, err := jpeg.Decode(bytes.NewReader(withHuffmanTables(pkt)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}
	d.images = append(d.images, img)
	return len(pkt), nil
}

func (d *MJPEGDecoder) ReadFrame() (image.Image, error) {
	if len(d.images) == 0 {
		return nil, ErrEAGAIN
	}
	img := d.images[0]
	d.images = d.images[1:]
	return img, nil
}

func (d *MJPEGDecoder) Close() error {
	d.images = nil
	return nil
}
