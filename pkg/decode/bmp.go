package decode

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"
)

// DecodeBMP decodes a still image in BMP format.
func DecodeBMP(data []byte) (*RGB, error) {
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode bmp: %w", err)
	}
	return FromImage(img), nil
}

// EncodeBMP writes img as a BMP. RGB images are widened to opaque RGBA so
// they are written as 24-bit rows.
func EncodeBMP(w io.Writer, img image.Image) error {
	if rgb, ok := img.(*RGB); ok {
		img = toRGBA(rgb)
	}
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}

func toRGBA(src *RGB) *image.RGBA {
	b := src.Rect
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x, y)
			j := dst.PixOffset(x, y)
			dst.Pix[j+0] = src.Pix[i+0]
			dst.Pix[j+1] = src.Pix[i+1]
			dst.Pix[j+2] = src.Pix[i+2]
			dst.Pix[j+3] = 0xff
		}
	}
	return dst
}
