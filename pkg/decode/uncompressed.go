package decode

import (
	"fmt"
	"image"
)

// UncompressedDecoder wraps raw capture buffers as images. Buffers are
// copied, so the driver may reuse them once Write returns.
type UncompressedDecoder struct {
	images        []image.Image
	fourcc        [4]byte
	width, height int
}

func NewUncompressedDecoder(fourcc [4]byte, width, height int) (*UncompressedDecoder, error) {
	return &UncompressedDecoder{fourcc: fourcc, width: width, height: height}, nil
}

func (d *UncompressedDecoder) ReadFrame() (image.Image, error) {
	if len(d.images) == 0 {
		return nil, ErrEAGAIN
	}
	img := d.images[0]
	d.images = d.images[1:]
	return img, nil
}

func (d *UncompressedDecoder) Write(pkt []byte) (int, error) {
	w, h := d.width, d.height
	rect := image.Rect(0, 0, w, h)
	var img image.Image
	switch d.fourcc {
	case [4]byte{'I', '4', '2', '0'}, [4]byte{'Y', 'U', '1', '2'}:
		cw, ch := (w+1)/2, (h+1)/2
		if len(pkt) < w*h+2*cw*ch {
			return 0, fmt.Errorf("%w: %d bytes for %dx%d %s", ErrShortFrame, len(pkt), w, h, d.fourcc[:])
		}
		ycc := image.NewYCbCr(rect, image.YCbCrSubsampleRatio420)
		copy(ycc.Y, pkt[:w*h])
		copy(ycc.Cb, pkt[w*h:w*h+cw*ch])
		copy(ycc.Cr, pkt[w*h+cw*ch:w*h+2*cw*ch])
		img = ycc
	case [4]byte{'Y', 'U', 'Y', 'V'}, [4]byte{'Y', 'U', 'Y', '2'}:
		if w%2 != 0 || len(pkt) < w*h*2 {
			return 0, fmt.Errorf("%w: %d bytes for %dx%d %s", ErrShortFrame, len(pkt), w, h, d.fourcc[:])
		}
		ycc := image.NewYCbCr(rect, image.YCbCrSubsampleRatio422)
		for y := 0; y < h; y++ {
			row := pkt[y*w*2 : (y+1)*w*2]
			for x := 0; x < w; x += 2 {
				s := row[x*2 : x*2+4 : x*2+4]
				ycc.Y[y*ycc.YStride+x] = s[0]
				ycc.Y[y*ycc.YStride+x+1] = s[2]
				ycc.Cb[y*ycc.CStride+x/2] = s[1]
				ycc.Cr[y*ycc.CStride+x/2] = s[3]
			}
		}
		img = ycc
	case [4]byte{'R', 'G', 'B', '3'}:
		if len(pkt) < w*h*3 {
			return 0, fmt.Errorf("%w: %d bytes for %dx%d %s", ErrShortFrame, len(pkt), w, h, d.fourcc[:])
		}
		rgb := NewRGB(rect)
		copy(rgb.Pix, pkt)
		img = rgb
	case [4]byte{'B', 'G', 'R', '3'}:
		if len(pkt) < w*h*3 {
			return 0, fmt.Errorf("%w: %d bytes for %dx%d %s", ErrShortFrame, len(pkt), w, h, d.fourcc[:])
		}
		bgr := &BGR{Pix: make([]uint8, w*h*3), Stride: w * 3, Rect: rect}
		copy(bgr.Pix, pkt)
		img = bgr
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, d.fourcc[:])
	}
	d.images = append(d.images, img)
	return len(pkt), nil
}

func (d *UncompressedDecoder) Close() error {
	d.images = nil
	return nil
}
