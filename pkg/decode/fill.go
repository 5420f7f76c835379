package decode

import (
	"image"

	"golang.org/x/image/draw"
)

// Pack returns the little-endian word of the bytes [b, g, r, 0], the 0RGB
// layout framebuffer surfaces expect.
func Pack(r, g, b uint8) uint32 {
	return uint32(b) | uint32(g)<<8 | uint32(r)<<16
}

// Unpack is the inverse of Pack. The padding byte is ignored.
func Unpack(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Fill writes the pixels of src into dst in raster order, one packed cell per
// pixel, and returns the number of cells written. When the buffers differ in
// length only the overlapping prefix is written; the remaining cells of dst
// keep their contents.
func Fill(dst []uint32, src *RGB) int {
	b := src.Rect
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[(y-b.Min.Y)*src.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if n == len(dst) {
				return n
			}
			s := row[x*3 : x*3+3 : x*3+3]
			dst[n] = Pack(s[0], s[1], s[2])
			n++
		}
	}
	return n
}

// Scale draws src into dst, stretching it to dst's bounds.
func Scale(dst *RGB, src image.Image) {
	if s, ok := src.(*RGB); ok && s.Rect == dst.Rect && s.Stride == dst.Stride {
		copy(dst.Pix, s.Pix)
		return
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}
